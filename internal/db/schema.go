package db

import (
	"context"
	"fmt"
	"log"
)

var tables = []struct {
	name string
	ddl  string
}{
	{"users", `
CREATE TABLE IF NOT EXISTS users (
  id BIGINT AUTO_INCREMENT PRIMARY KEY,
  name VARCHAR(150) NOT NULL,
  username VARCHAR(100) NOT NULL UNIQUE,
  email VARCHAR(150) NOT NULL UNIQUE,
  password_hash VARCHAR(255) NOT NULL,
  role VARCHAR(20) NOT NULL DEFAULT 'agent',
  status VARCHAR(20) NOT NULL DEFAULT 'active',
  created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
  updated_at DATETIME DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`},
	{"pending_bookings", `
CREATE TABLE IF NOT EXISTS pending_bookings (
  id BIGINT AUTO_INCREMENT PRIMARY KEY,
  ref_no VARCHAR(50) NOT NULL,
  pax_name VARCHAR(200) NOT NULL,
  agent_name VARCHAR(150) NULL,
  team_name VARCHAR(150) NULL,
  pnr VARCHAR(20) NULL,
  airline VARCHAR(100) NULL,
  from_to VARCHAR(150) NULL,
  travel_date DATE NULL,
  issued_date DATE NULL,
  pc_date DATE NULL,
  payment_method VARCHAR(20) NOT NULL,
  booking_type VARCHAR(20) NOT NULL DEFAULT 'FRESH',
  original_booking_id BIGINT NULL,
  notes TEXT NULL,
  revenue DOUBLE NOT NULL DEFAULT 0,
  prod_cost DOUBLE NOT NULL DEFAULT 0,
  trans_fee DOUBLE NOT NULL DEFAULT 0,
  surcharge DOUBLE NOT NULL DEFAULT 0,
  received DOUBLE NOT NULL DEFAULT 0,
  profit DOUBLE NOT NULL DEFAULT 0,
  balance DOUBLE NOT NULL DEFAULT 0,
  initial_deposit DOUBLE NULL,
  cost_items JSON NULL,
  instalment_plan JSON NULL,
  plan JSON NULL,
  created_by VARCHAR(100) NULL,
  created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
  INDEX idx_pending_ref (ref_no)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`},
	{"bookings", `
CREATE TABLE IF NOT EXISTS bookings (
  id BIGINT AUTO_INCREMENT PRIMARY KEY,
  ref_no VARCHAR(50) NOT NULL UNIQUE,
  pax_name VARCHAR(200) NOT NULL,
  agent_name VARCHAR(150) NULL,
  team_name VARCHAR(150) NULL,
  pnr VARCHAR(20) NULL,
  airline VARCHAR(100) NULL,
  from_to VARCHAR(150) NULL,
  travel_date DATE NULL,
  issued_date DATE NULL,
  pc_date DATE NULL,
  payment_method VARCHAR(20) NOT NULL,
  booking_type VARCHAR(20) NOT NULL DEFAULT 'FRESH',
  booking_status VARCHAR(20) NOT NULL DEFAULT 'CONFIRMED',
  original_booking_id BIGINT NULL,
  notes TEXT NULL,
  revenue DOUBLE NOT NULL DEFAULT 0,
  prod_cost DOUBLE NOT NULL DEFAULT 0,
  trans_fee DOUBLE NOT NULL DEFAULT 0,
  surcharge DOUBLE NOT NULL DEFAULT 0,
  received DOUBLE NOT NULL DEFAULT 0,
  profit DOUBLE NOT NULL DEFAULT 0,
  balance DOUBLE NOT NULL DEFAULT 0,
  initial_deposit DOUBLE NULL,
  commission_amount DOUBLE NULL,
  created_by VARCHAR(100) NULL,
  approved_by VARCHAR(100) NULL,
  created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
  updated_at DATETIME DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
  INDEX idx_bookings_status (booking_status)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`},
	{"cost_items", `
CREATE TABLE IF NOT EXISTS cost_items (
  id BIGINT AUTO_INCREMENT PRIMARY KEY,
  booking_id BIGINT NOT NULL,
  category VARCHAR(100) NOT NULL,
  amount DOUBLE NOT NULL,
  INDEX idx_cost_items_booking (booking_id)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`},
	{"cost_item_suppliers", `
CREATE TABLE IF NOT EXISTS cost_item_suppliers (
  id BIGINT AUTO_INCREMENT PRIMARY KEY,
  cost_item_id BIGINT NOT NULL,
  booking_id BIGINT NOT NULL,
  supplier VARCHAR(150) NOT NULL,
  amount DOUBLE NOT NULL,
  payment_method VARCHAR(40) NOT NULL,
  first_method_amount DOUBLE NOT NULL DEFAULT 0,
  second_method_amount DOUBLE NOT NULL DEFAULT 0,
  base_paid DOUBLE NOT NULL DEFAULT 0,
  paid_amount DOUBLE NOT NULL DEFAULT 0,
  pending_amount DOUBLE NOT NULL DEFAULT 0,
  status VARCHAR(20) NOT NULL DEFAULT 'PENDING',
  INDEX idx_cis_item (cost_item_id),
  INDEX idx_cis_booking (booking_id)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`},
	{"supplier_payment_settlements", `
CREATE TABLE IF NOT EXISTS supplier_payment_settlements (
  id BIGINT AUTO_INCREMENT PRIMARY KEY,
  cost_item_supplier_id BIGINT NOT NULL,
  amount DOUBLE NOT NULL,
  transaction_method VARCHAR(20) NOT NULL,
  settlement_date DATE NULL,
  reference VARCHAR(100) NULL,
  notes TEXT NULL,
  created_by VARCHAR(100) NULL,
  created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
  INDEX idx_sps_parent (cost_item_supplier_id)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`},
	{"instalments", `
CREATE TABLE IF NOT EXISTS instalments (
  id BIGINT AUTO_INCREMENT PRIMARY KEY,
  booking_id BIGINT NOT NULL,
  due_date DATE NOT NULL,
  amount DOUBLE NOT NULL,
  paid_amount DOUBLE NOT NULL DEFAULT 0,
  status VARCHAR(20) NOT NULL DEFAULT 'PENDING',
  INDEX idx_instalments_booking (booking_id)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`},
	{"instalment_payments", `
CREATE TABLE IF NOT EXISTS instalment_payments (
  id BIGINT AUTO_INCREMENT PRIMARY KEY,
  booking_id BIGINT NOT NULL,
  instalment_id BIGINT NULL,
  kind VARCHAR(20) NOT NULL DEFAULT 'INSTALMENT',
  amount DOUBLE NOT NULL,
  transaction_method VARCHAR(20) NOT NULL,
  payment_date DATE NULL,
  reference VARCHAR(100) NULL,
  created_by VARCHAR(100) NULL,
  created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
  INDEX idx_ip_booking (booking_id),
  INDEX idx_ip_instalment (instalment_id)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`},
	{"cancellations", `
CREATE TABLE IF NOT EXISTS cancellations (
  id BIGINT AUTO_INCREMENT PRIMARY KEY,
  booking_id BIGINT NOT NULL UNIQUE,
  supplier_cancellation_fee DOUBLE NOT NULL DEFAULT 0,
  admin_fee DOUBLE NOT NULL DEFAULT 0,
  refund_to_passenger DOUBLE NOT NULL DEFAULT 0,
  refund_transaction_method VARCHAR(20) NULL,
  supplier_paid DOUBLE NOT NULL DEFAULT 0,
  supplier VARCHAR(150) NULL,
  notes TEXT NULL,
  created_by VARCHAR(100) NULL,
  created_at DATETIME DEFAULT CURRENT_TIMESTAMP
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`},
	{"credit_notes", `
CREATE TABLE IF NOT EXISTS credit_notes (
  id BIGINT AUTO_INCREMENT PRIMARY KEY,
  reference_no VARCHAR(40) NOT NULL UNIQUE,
  supplier VARCHAR(150) NOT NULL,
  booking_id BIGINT NOT NULL,
  cancellation_id BIGINT NOT NULL,
  initial_amount DOUBLE NOT NULL,
  remaining_amount DOUBLE NOT NULL,
  status VARCHAR(20) NOT NULL DEFAULT 'AVAILABLE',
  issued_date DATE NULL,
  created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
  INDEX idx_credit_notes_supplier (supplier)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`},
	{"credit_note_usages", `
CREATE TABLE IF NOT EXISTS credit_note_usages (
  id BIGINT AUTO_INCREMENT PRIMARY KEY,
  credit_note_id BIGINT NOT NULL,
  cost_item_supplier_id BIGINT NOT NULL,
  booking_id BIGINT NOT NULL,
  amount_used DOUBLE NOT NULL,
  created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
  INDEX idx_cnu_note (credit_note_id)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`},
	{"customer_payables", obligationDDL("customer_payables")},
	{"supplier_payables", obligationDDL("supplier_payables")},
	{"passenger_refunds", obligationDDL("passenger_refunds")},
	{"obligation_settlements", `
CREATE TABLE IF NOT EXISTS obligation_settlements (
  id BIGINT AUTO_INCREMENT PRIMARY KEY,
  obligation_kind VARCHAR(30) NOT NULL,
  obligation_id BIGINT NOT NULL,
  amount DOUBLE NOT NULL,
  transaction_method VARCHAR(20) NOT NULL,
  settlement_date DATE NULL,
  reference VARCHAR(100) NULL,
  notes TEXT NULL,
  created_by VARCHAR(100) NULL,
  created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
  INDEX idx_os_parent (obligation_kind, obligation_id)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`},
	{"internal_invoices", `
CREATE TABLE IF NOT EXISTS internal_invoices (
  id BIGINT AUTO_INCREMENT PRIMARY KEY,
  booking_id BIGINT NOT NULL,
  invoice_no VARCHAR(40) NOT NULL UNIQUE,
  amount DOUBLE NOT NULL,
  invoice_date DATE NULL,
  notes TEXT NULL,
  created_by VARCHAR(100) NULL,
  created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
  INDEX idx_ii_booking (booking_id)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`},
}

func obligationDDL(table string) string {
	return `
CREATE TABLE IF NOT EXISTS ` + table + ` (
  id BIGINT AUTO_INCREMENT PRIMARY KEY,
  booking_id BIGINT NOT NULL,
  cancellation_id BIGINT NOT NULL,
  party VARCHAR(200) NULL,
  amount DOUBLE NOT NULL,
  paid_amount DOUBLE NOT NULL DEFAULT 0,
  pending_amount DOUBLE NOT NULL DEFAULT 0,
  status VARCHAR(20) NOT NULL DEFAULT 'PENDING',
  transaction_method VARCHAR(20) NULL,
  created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
  INDEX idx_` + table + `_booking (booking_id)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`
}

// legacyColumns are added to bookings tables created before the column existed.
var legacyColumns = []struct {
	table, column, ddl string
}{
	{"bookings", "initial_deposit", "ALTER TABLE bookings ADD COLUMN initial_deposit DOUBLE NULL"},
	{"bookings", "commission_amount", "ALTER TABLE bookings ADD COLUMN commission_amount DOUBLE NULL"},
	{"bookings", "booking_status", "ALTER TABLE bookings ADD COLUMN booking_status VARCHAR(20) NOT NULL DEFAULT 'CONFIRMED'"},
}

// EnsureSchema creates missing tables and columns. It never drops anything.
func EnsureSchema(ctx context.Context, conn DBTX) error {
	for _, t := range tables {
		if _, err := conn.ExecContext(ctx, t.ddl); err != nil {
			return fmt.Errorf("create table %s: %w", t.name, err)
		}
	}
	for _, c := range legacyColumns {
		if HasColumn(ctx, conn, c.table, c.column) {
			continue
		}
		log.Printf("[DB] adding column %s.%s", c.table, c.column)
		if _, err := conn.ExecContext(ctx, c.ddl); err != nil {
			return fmt.Errorf("add column %s.%s: %w", c.table, c.column, err)
		}
	}
	return nil
}
