package command

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"yamdb/database"
	"yamdb/internal/http-api/models"
	"yamdb/internal/http-api/repository"
	"yamdb/internal/http-api/service"
)

var (
	adminUsername string
	adminEmail    string
)

var createAdminCmd = &cobra.Command{
	Use:   "create-admin",
	Short: "Create a staff account with the admin role",
	Long: `create-admin registers a user with the admin role and the staff flag set.
The account signs in like any other user: POST /api/v1/auth/signup with the
same username and email mails a confirmation code.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := service.ValidateUsername(adminUsername); err != nil {
			return err
		}

		e, err := loadEnv()
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		db, err := e.connect(ctx)
		if err != nil {
			return err
		}
		defer database.Close(db)

		user := &models.User{
			Username: adminUsername,
			Email:    adminEmail,
			Role:     models.RoleAdmin,
			IsStaff:  true,
		}
		err = repository.NewUserRepository(db).Create(ctx, user)
		switch {
		case errors.Is(err, repository.ErrDuplicateUsername):
			return fmt.Errorf("username %q is already taken", adminUsername)
		case errors.Is(err, repository.ErrDuplicateEmail):
			return fmt.Errorf("email %q is already registered", adminEmail)
		case err != nil:
			return err
		}

		e.logger.Info("admin_created", "user_id", user.ID, "username", user.Username)
		fmt.Printf("✓ Admin %s created (id %s)\n", user.Username, user.ID)
		return nil
	},
}

func init() {
	createAdminCmd.Flags().StringVar(&adminUsername, "username", "", "admin username")
	createAdminCmd.Flags().StringVar(&adminEmail, "email", "", "admin email")
	_ = createAdminCmd.MarkFlagRequired("username")
	_ = createAdminCmd.MarkFlagRequired("email")
	rootCmd.AddCommand(createAdminCmd)
}
