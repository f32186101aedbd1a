package database

import (
	"fmt"

	"gorm.io/gorm"
)

// EnsureConstraints applies (idempotent) storage-level rules that GORM tags
// cannot express:
// - money column type for visit costs (NUMERIC(12,2))
// - foreign keys from machines' lifecycle columns to their child tables,
//   RESTRICT both ways so a referenced child row cannot vanish
// - CHECK constraints on date windows and costs
// Postgres-only; the sqlite test setup relies on AutoMigrate alone.
func EnsureConstraints() error {
	return DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec(`ALTER TABLE service_visits ALTER COLUMN total_cost TYPE numeric(12,2)`).Error; err != nil {
			return fmt.Errorf("money type migration failed: %w", err)
		}

		fks := []struct{ name, ddl string }{
			{"fk_machines_supply", `ALTER TABLE machines ADD CONSTRAINT fk_machines_supply
				FOREIGN KEY (supply_id) REFERENCES supplies(id) ON UPDATE RESTRICT ON DELETE RESTRICT`},
			{"fk_machines_return", `ALTER TABLE machines ADD CONSTRAINT fk_machines_return
				FOREIGN KEY (return_id) REFERENCES returns(id) ON UPDATE RESTRICT ON DELETE RESTRICT`},
			{"fk_machines_sale", `ALTER TABLE machines ADD CONSTRAINT fk_machines_sale
				FOREIGN KEY (sale_id) REFERENCES sales(id) ON UPDATE RESTRICT ON DELETE RESTRICT`},
			{"fk_machines_certificate", `ALTER TABLE machines ADD CONSTRAINT fk_machines_certificate
				FOREIGN KEY (certificate_id) REFERENCES warranty_certificates(id) ON UPDATE RESTRICT ON DELETE RESTRICT`},
			{"fk_service_requests_machine", `ALTER TABLE service_requests ADD CONSTRAINT fk_service_requests_machine
				FOREIGN KEY (machine_id) REFERENCES machines(id) ON UPDATE RESTRICT ON DELETE RESTRICT`},
		}
		for _, fk := range fks {
			stmt := fmt.Sprintf(`
DO $$
BEGIN
	IF NOT EXISTS (
		SELECT 1 FROM pg_constraint WHERE conname = '%s'
	) THEN
		%s;
	END IF;
END $$;`, fk.name, fk.ddl)
			if err := tx.Exec(stmt).Error; err != nil {
				return fmt.Errorf("foreign key migration failed on %s: %w", fk.name, err)
			}
		}

		checks := []struct{ table, name, expr string }{
			{"supplies", "chk_supplies_window", "sell_by >= supply_date"},
			{"service_visits", "chk_service_visits_cost_nonneg", "total_cost >= 0"},
		}
		for _, ck := range checks {
			stmt := fmt.Sprintf(`
DO $$
BEGIN
	IF NOT EXISTS (
		SELECT 1 FROM pg_constraint
		WHERE conrelid = '%s'::regclass AND conname = '%s'
	) THEN
		ALTER TABLE %s ADD CONSTRAINT %s CHECK (%s);
	END IF;
END $$;`, ck.table, ck.name, ck.table, ck.name, ck.expr)
			if err := tx.Exec(stmt).Error; err != nil {
				return fmt.Errorf("check constraint migration failed on %s: %w", ck.name, err)
			}
		}

		return nil
	})
}
