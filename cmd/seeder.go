package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/frahmantamala/employee-dashboard/internal"
	"github.com/frahmantamala/employee-dashboard/internal/auth"
	"github.com/frahmantamala/employee-dashboard/internal/core/events"
	"github.com/frahmantamala/employee-dashboard/internal/core/identity"
	"github.com/frahmantamala/employee-dashboard/internal/leave"
	"github.com/frahmantamala/employee-dashboard/internal/payroll"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var (
	clearData   bool
	fixturePath string
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with sample data",
	Long:  `Seed principals, leave requests and payrolls from a YAML fixture for development and testing.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		fixture, err := loadFixture(fixturePath)
		if err != nil {
			return err
		}

		cfg, err := loadConfig(configPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		app, err := newApplication(cfg, true)
		if err != nil {
			return err
		}
		defer app.Close()

		ctx := cmd.Context()
		if clearData {
			if err := clearTables(ctx, app); err != nil {
				return err
			}
		}
		return seed(ctx, app, fixture)
	},
}

type seedFixture struct {
	Principals []seedPrincipal `yaml:"principals"`
	Leaves     []seedLeave     `yaml:"leaves"`
	Payrolls   []seedPayroll   `yaml:"payrolls"`
}

type seedPrincipal struct {
	Email    string `yaml:"email"`
	Password string `yaml:"password"`
	FullName string `yaml:"full_name"`
	Role     string `yaml:"role"`
}

type seedLeave struct {
	Email     string `yaml:"email"`
	StartDate string `yaml:"start_date"`
	EndDate   string `yaml:"end_date"`
	Reason    string `yaml:"reason"`
	Status    string `yaml:"status"`
}

type seedPayroll struct {
	Email  string  `yaml:"email"`
	Salary float64 `yaml:"salary"`
	Date   string  `yaml:"date"`
}

func loadFixture(path string) (*seedFixture, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read fixture: %w", err)
	}

	var f seedFixture
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("failed to parse fixture %s: %w", path, err)
	}
	if err := f.validate(); err != nil {
		return nil, fmt.Errorf("invalid fixture %s: %w", path, err)
	}
	return &f, nil
}

func (f *seedFixture) validate() error {
	known := make(map[string]struct{}, len(f.Principals))
	for i, p := range f.Principals {
		role := identity.ParseRole(p.Role)
		if role != identity.RoleEmployee && role != identity.RoleAdmin {
			return fmt.Errorf("principals[%d]: unknown role %q", i, p.Role)
		}
		known[strings.ToLower(p.Email)] = struct{}{}
	}

	if (len(f.Leaves) > 0 || len(f.Payrolls) > 0) && f.admin() == nil {
		return errors.New("leaves and payrolls need at least one admin principal")
	}
	for i, l := range f.Leaves {
		if _, ok := known[strings.ToLower(l.Email)]; !ok {
			return fmt.Errorf("leaves[%d]: %s is not a fixture principal", i, l.Email)
		}
	}
	for i, p := range f.Payrolls {
		if _, ok := known[strings.ToLower(p.Email)]; !ok {
			return fmt.Errorf("payrolls[%d]: %s is not a fixture principal", i, p.Email)
		}
	}
	return nil
}

// admin is the principal recorded as the actor for seeded decisions.
func (f *seedFixture) admin() *seedPrincipal {
	for i := range f.Principals {
		if identity.ParseRole(f.Principals[i].Role).IsAdmin() {
			return &f.Principals[i]
		}
	}
	return nil
}

func seed(ctx context.Context, app *application, f *seedFixture) error {
	lg := app.Logger
	sessions := make(map[string]identity.Session, len(f.Principals))

	for _, sp := range f.Principals {
		p, err := app.Auth.Signup(ctx, auth.SignupDTO{Email: sp.Email, Password: sp.Password, FullName: sp.FullName})
		switch {
		case errors.Is(err, internal.ErrEmailTaken):
			p, err = app.Users.GetByEmail(ctx, sp.Email)
			if err != nil {
				return fmt.Errorf("failed to load existing principal %s: %w", sp.Email, err)
			}
			lg.Info("principal already exists", "email", p.Email)
		case err != nil:
			return fmt.Errorf("failed to sign up %s: %w", sp.Email, err)
		default:
			lg.Info("seeded principal", "email", p.Email)
		}

		role := identity.ParseRole(sp.Role)
		if p.Role != role {
			if err := app.Users.SetRole(ctx, p.UID, role); err != nil {
				return fmt.Errorf("failed to set role for %s: %w", sp.Email, err)
			}
		}
		if err := app.Bus.PublishSync(ctx, events.NewPrincipalCreatedEvent(p.UID, p.Email)); err != nil {
			return fmt.Errorf("failed to mirror role for %s: %w", sp.Email, err)
		}

		sessions[strings.ToLower(sp.Email)] = identity.Session{UID: p.UID, Email: p.Email}
	}

	var actor identity.Session
	if admin := f.admin(); admin != nil {
		actor = sessions[strings.ToLower(admin.Email)]
	}

	for _, sl := range f.Leaves {
		req, err := app.Leave.Create(ctx, sessions[strings.ToLower(sl.Email)], leave.CreateRequestDTO{
			StartDate: sl.StartDate,
			EndDate:   sl.EndDate,
			Reason:    sl.Reason,
		})
		if err != nil {
			return fmt.Errorf("failed to seed leave for %s: %w", sl.Email, err)
		}

		switch strings.ToLower(sl.Status) {
		case "approved":
			_, err = app.Leave.Approve(ctx, actor, req.ID)
		case "declined":
			_, err = app.Leave.Decline(ctx, actor, req.ID)
		}
		if err != nil {
			return fmt.Errorf("failed to decide seeded leave %d: %w", req.ID, err)
		}
	}
	lg.Info("seeded leave requests", "count", len(f.Leaves))

	for _, sp := range f.Payrolls {
		_, err := app.Payroll.Create(ctx, actor, payroll.CreatePayrollDTO{Email: sp.Email, Salary: sp.Salary, Date: sp.Date})
		if err != nil {
			return fmt.Errorf("failed to seed payroll for %s: %w", sp.Email, err)
		}
	}
	lg.Info("seeded payrolls", "count", len(f.Payrolls))

	return nil
}

func clearTables(ctx context.Context, app *application) error {
	tables := []string{"payrolls", "leave_requests", "clock_entries", "identity_claims", "credentials", "principals"}
	for _, table := range tables {
		if _, err := app.SQLX.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}
	app.Logger.Warn("cleared seeded tables", "tables", tables)
	return nil
}

func init() {
	seedCmd.Flags().BoolVar(&clearData, "clear", false, "Clear existing data before seeding")
	seedCmd.Flags().StringVarP(&fixturePath, "fixture", "f", "db/seed/fixture.yml", "YAML fixture to load")
}
