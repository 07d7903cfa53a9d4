package cmd

import (
	"fmt"
	"log"

	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with sample data",
	Long:  `Seed the database with sample accounts and permissions for development and testing purposes.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(".")
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		db, err := initDB(cfg.Database)
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}
		defer db.Close()

		if clearData {
			for _, table := range []string{"user_permissions", "committees", "users", "permissions"} {
				if _, err := db.Exec("DELETE FROM " + table); err != nil {
					log.Fatalf("failed to clear %s: %v", table, err)
				}
			}
			fmt.Println("Cleared existing data")
		}

		password := "password123"
		hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)

		adminID := seedUser(db, "admin@tender.local", "Asha Admin", "EMP001", "Administration", "System Administrator", "admin", string(hash))
		staffID := seedUser(db, "staff@tender.local", "Sam Staff", "EMP002", "Procurement", "Procurement Officer", "staff", string(hash))

		permissions := []struct {
			Name string
			Desc string
		}{
			{"admin", "full administrator"},
			{"manage_users", "Can manage user accounts"},
			{"manage_committees", "Can create, update and delete committees"},
			{"view_committees", "Can view committees"},
			{"download_letters", "Can download formation letters"},
		}

		for _, p := range permissions {
			var pid int64
			if err := db.QueryRow("SELECT id FROM permissions WHERE name = $1", p.Name).Scan(&pid); err != nil {
				if _, err := db.Exec("INSERT INTO permissions (name, description, created_at) VALUES ($1, $2, now())", p.Name, p.Desc); err != nil {
					log.Fatalf("failed to insert permission %s: %v", p.Name, err)
				}
			}
		}

		for _, p := range permissions {
			grantPermission(db, adminID, p.Name)
		}
		fmt.Println("Granted all permissions to admin user")

		for _, name := range []string{"view_committees", "download_letters"} {
			grantPermission(db, staffID, name)
		}
		fmt.Println("Granted view permissions to staff user")

		fmt.Println("Seeding complete. Sample password:", password)
	},
}

func seedUser(db *sqlx.DB, email, name, employeeID, department, designation, role, hash string) int64 {
	var id int64
	if err := db.QueryRow("SELECT id FROM users WHERE email = $1", email).Scan(&id); err == nil {
		fmt.Printf("user %s already exists; will ensure permissions\n", email)
		return id
	}

	if err := db.QueryRow(
		`INSERT INTO users (email, name, employee_id, department, designation, role, password_hash, is_active, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, true, now(), now()) RETURNING id`,
		email, name, employeeID, department, designation, role, hash,
	).Scan(&id); err != nil {
		log.Fatalf("failed to insert user %s: %v", email, err)
	}

	fmt.Printf("Seeded %s user: %s (%s)\n", role, email, employeeID)
	return id
}

func grantPermission(db *sqlx.DB, userID int64, permName string) {
	var pid int64
	if err := db.QueryRow("SELECT id FROM permissions WHERE name = $1", permName).Scan(&pid); err != nil {
		log.Fatalf("permission not found %s: %v", permName, err)
	}

	var exists int
	if err := db.QueryRow("SELECT 1 FROM user_permissions WHERE user_id = $1 AND permission_id = $2", userID, pid).Scan(&exists); err == nil {
		return
	}

	if _, err := db.Exec("INSERT INTO user_permissions (user_id, permission_id, granted_by, created_at) VALUES ($1, $2, NULL, now())", userID, pid); err != nil {
		log.Fatalf("failed to grant permission %s: %v", permName, err)
	}
}
