package controllers

import (
	"os"
	"strings"
	"time"

	"equiptrack-backend/database"
	"equiptrack-backend/middlewares"
	"equiptrack-backend/models"
	"equiptrack-backend/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type serviceRequestInput struct {
	MachineID uint   `json:"machine_id" validate:"required"`
	Complaint string `json:"complaint" validate:"required"`
}

// CreateServiceRequest opens a complaint against a sold machine. Unlike the
// lifecycle records there is no one-per-machine cap.
func CreateServiceRequest(c *fiber.Ctx) error {
	var data serviceRequestInput
	if err := middlewares.BindAndValidate(c, &data); err != nil {
		return err
	}

	db := database.HandlerDB(c)

	var machine models.Machine
	if err := db.First(&machine, data.MachineID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "machine not eligible for service"})
	}
	if machine.SaleID == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "machine not eligible for service"})
	}

	req := models.ServiceRequest{
		MachineID: data.MachineID,
		Complaint: data.Complaint,
	}
	if err := db.Create(&req).Error; err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "could not create service request",
			"error":   err.Error(),
		})
	}
	return c.JSON(req)
}

func GetServiceRequests(c *fiber.Ctx) error {
	var requests []models.ServiceRequest
	err := database.HandlerDB(c).
		Preload("Visit.Engineer").
		Order("created_at DESC").
		Find(&requests).Error
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"service_requests": requests, "message": "success"})
}

func GetServiceRequest(c *fiber.Ctx) error {
	var req models.ServiceRequest
	err := database.HandlerDB(c).
		Preload("Visit.Engineer").
		Preload("Visit.Comments.Attachments").
		First(&req, "id = ?", c.Params("id")).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "service request not found"})
		}
		return err
	}
	if req.Visit != nil {
		resolveAttachmentURLs(req.Visit.Comments)
	}
	return c.JSON(req)
}

type visitInput struct {
	EngineerID uint      `json:"engineer_id" validate:"required"`
	VisitDate  time.Time `json:"visit_date" validate:"required"`
	IssueType  string    `json:"issue_type"`
	TotalCost  float64   `json:"total_cost" validate:"gte=0"`
}

// AssignVisit attaches the single field visit to a request, starting out
// PENDING. The unique index on service_visits.service_request_id decides
// concurrent double-assignments.
func AssignVisit(c *fiber.Ctx) error {
	var data visitInput
	if err := middlewares.BindAndValidate(c, &data); err != nil {
		return err
	}

	db := database.HandlerDB(c)

	var req models.ServiceRequest
	if err := db.Preload("Visit").First(&req, "id = ?", c.Params("id")).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "service request not found"})
	}
	if req.Visit != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "visit already exists for this request"})
	}
	var engineer models.Engineer
	if err := db.First(&engineer, data.EngineerID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "engineer not found"})
	}

	visit := models.ServiceVisit{
		ServiceRequestID: req.ID,
		EngineerID:       data.EngineerID,
		VisitDate:        data.VisitDate,
		IssueType:        data.IssueType,
		TotalCost:        utils.Round2(data.TotalCost),
		Status:           models.VisitStatusPending,
	}
	if err := db.Create(&visit).Error; err != nil {
		// Unique-index violation from a concurrent assignment lands here.
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "visit already exists for this request",
			"error":   err.Error(),
		})
	}

	db.Preload("Engineer").First(&visit, visit.ID)
	return c.JSON(visit)
}

type visitStatusInput struct {
	Status string  `json:"status" validate:"required,oneof=PENDING COMPLETED CANCELLED CLOSED"`
	Notes  *string `json:"notes"`
}

func UpdateVisitStatus(c *fiber.Ctx) error {
	var data visitStatusInput
	if err := middlewares.BindAndValidate(c, &data); err != nil {
		return err
	}

	db := database.HandlerDB(c)

	var visit models.ServiceVisit
	if err := db.First(&visit, "id = ?", c.Params("id")).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "service visit not found"})
	}
	if !models.ValidVisitTransition(visit.Status, data.Status) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid status transition"})
	}

	// A present notes field always wins, so an explicit "" clears the column;
	// an absent field leaves it alone.
	updates := map[string]any{"status": data.Status}
	if data.Notes != nil {
		updates["notes"] = *data.Notes
	}
	if err := db.Model(&visit).Updates(updates).Error; err != nil {
		return err
	}
	return c.JSON(visit)
}

type visitCompleteInput struct {
	IssueType string  `json:"issue_type"`
	TotalCost float64 `json:"total_cost" validate:"gte=0"`
}

// CompleteVisit is the administrative close-out: it records the final issue
// type and cost and forces the visit to CLOSED.
func CompleteVisit(c *fiber.Ctx) error {
	var data visitCompleteInput
	if err := middlewares.BindAndValidate(c, &data); err != nil {
		return err
	}

	db := database.HandlerDB(c)

	var visit models.ServiceVisit
	if err := db.First(&visit, "id = ?", c.Params("id")).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "service visit not found"})
	}

	updates := map[string]any{
		"status":     models.VisitStatusClosed,
		"total_cost": utils.Round2(data.TotalCost),
	}
	if data.IssueType != "" {
		updates["issue_type"] = data.IssueType
	}
	if err := db.Model(&visit).Updates(updates).Error; err != nil {
		return err
	}
	return c.JSON(visit)
}

type attachmentInput struct {
	DisplayName string `json:"display_name" validate:"required"`
	ObjectKey   string `json:"object_key" validate:"required"`
}

type commentInput struct {
	Text        string            `json:"text" validate:"required"`
	Attachments []attachmentInput `json:"attachments" validate:"dive"`
}

// AddComment appends to a visit's log. Attachments are opaque references
// into the external object store; only {display name, object key} persist.
func AddComment(c *fiber.Ctx) error {
	var data commentInput
	if err := middlewares.BindAndValidate(c, &data); err != nil {
		return err
	}

	db := database.HandlerDB(c)

	var visit models.ServiceVisit
	if err := db.First(&visit, "id = ?", c.Params("id")).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "service visit not found"})
	}

	comment := models.VisitComment{
		ServiceVisitID: visit.ID,
		Text:           data.Text,
	}
	for _, a := range data.Attachments {
		comment.Attachments = append(comment.Attachments, models.CommentAttachment{
			DisplayName: a.DisplayName,
			ObjectKey:   a.ObjectKey,
		})
	}

	if err := db.Create(&comment).Error; err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "could not add comment",
			"error":   err.Error(),
		})
	}

	if base := mediaBaseURL(); base != "" {
		for i := range comment.Attachments {
			comment.Attachments[i].URL = base + "/" + comment.Attachments[i].ObjectKey
		}
	}
	return c.JSON(comment)
}

func mediaBaseURL() string {
	return strings.TrimRight(os.Getenv("MEDIA_BASE_URL"), "/")
}

// resolveAttachmentURLs fills in the transient URL field from the media
// collaborator's base URL.
func resolveAttachmentURLs(comments []models.VisitComment) {
	base := mediaBaseURL()
	if base == "" {
		return
	}
	for ci := range comments {
		for ai := range comments[ci].Attachments {
			comments[ci].Attachments[ai].URL = base + "/" + comments[ci].Attachments[ai].ObjectKey
		}
	}
}
