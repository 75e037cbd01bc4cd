package user_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/frahmantamala/employee-dashboard/internal"
	principalDatamodel "github.com/frahmantamala/employee-dashboard/internal/core/datamodel/principal"
	"github.com/frahmantamala/employee-dashboard/internal/core/identity"
	"github.com/frahmantamala/employee-dashboard/internal/user"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestUser(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "User Suite")
}

type mockRepository struct {
	byUID     map[string]*principalDatamodel.Principal
	failWith  error
	createErr error
	lastPatch map[string]interface{}
}

func newMockRepository() *mockRepository {
	return &mockRepository{byUID: map[string]*principalDatamodel.Principal{}}
}

func (m *mockRepository) Create(ctx context.Context, p *principalDatamodel.Principal) error {
	if m.failWith != nil {
		return m.failWith
	}
	if m.createErr != nil {
		return m.createErr
	}
	m.byUID[p.UID] = p
	return nil
}

func (m *mockRepository) Delete(ctx context.Context, uid string) error {
	if m.failWith != nil {
		return m.failWith
	}
	delete(m.byUID, uid)
	return nil
}

func (m *mockRepository) GetByUID(ctx context.Context, uid string) (*principalDatamodel.Principal, error) {
	if m.failWith != nil {
		return nil, m.failWith
	}
	if p, ok := m.byUID[uid]; ok {
		return p, nil
	}
	return nil, user.ErrNotFound
}

func (m *mockRepository) GetByEmail(ctx context.Context, email string) (*principalDatamodel.Principal, error) {
	if m.failWith != nil {
		return nil, m.failWith
	}
	for _, p := range m.byUID {
		if p.Email == email {
			return p, nil
		}
	}
	return nil, user.ErrNotFound
}

func (m *mockRepository) List(ctx context.Context) ([]*principalDatamodel.Principal, error) {
	out := []*principalDatamodel.Principal{}
	for _, p := range m.byUID {
		out = append(out, p)
	}
	return out, m.failWith
}

func (m *mockRepository) UpdateProfile(ctx context.Context, uid string, fields map[string]interface{}) error {
	if m.failWith != nil {
		return m.failWith
	}
	p, ok := m.byUID[uid]
	if !ok {
		return user.ErrNotFound
	}
	m.lastPatch = fields
	if v, ok := fields["full_name"].(string); ok {
		p.FullName = v
	}
	if v, ok := fields["emergency_info"].(string); ok {
		p.EmergencyInfo = v
	}
	if v, ok := fields["role"].(string); ok {
		p.Role = v
	}
	return nil
}

func strPtr(s string) *string { return &s }

var _ = Describe("User Service", func() {
	var (
		repo    *mockRepository
		service *user.Service
	)
	ctx := context.Background()

	BeforeEach(func() {
		repo = newMockRepository()
		service = user.NewService(repo, slog.New(slog.NewTextHandler(io.Discard, nil)))
		repo.byUID["uid-ana"] = &principalDatamodel.Principal{UID: "uid-ana", Email: "ana@example.com", FullName: "Ana", Role: "Employee"}
	})

	Describe("GetByUID", func() {
		It("should normalise the stored role", func() {
			p, err := service.GetByUID(ctx, "uid-ana")

			Expect(err).NotTo(HaveOccurred())
			Expect(p.Role).To(Equal(identity.RoleEmployee))
		})

		It("should return a not found app error", func() {
			_, err := service.GetByUID(ctx, "missing")

			Expect(errors.Is(err, internal.ErrPrincipalNotFound)).To(BeTrue())
		})
	})

	Describe("DisplayName", func() {
		It("should return the full name of a known email", func() {
			Expect(service.DisplayName(ctx, " ANA@example.com ")).To(Equal("Ana"))
		})

		It("should fall back to the placeholder for an unknown email", func() {
			Expect(service.DisplayName(ctx, "ghost@example.com")).To(Equal(identity.UnknownName))
		})

		It("should fall back to the placeholder when the directory fails", func() {
			repo.failWith = errors.New("connection refused")
			Expect(service.DisplayName(ctx, "ana@example.com")).To(Equal(identity.UnknownName))
		})
	})

	Describe("Create", func() {
		It("should default the role to employee", func() {
			p := &identity.Principal{UID: "uid-budi", Email: "Budi@Example.com", FullName: "Budi"}

			Expect(service.Create(ctx, p)).To(Succeed())

			stored := repo.byUID["uid-budi"]
			Expect(stored.Role).To(Equal("employee"))
			Expect(stored.Email).To(Equal("budi@example.com"))
		})

		It("should reject a duplicate email", func() {
			p := &identity.Principal{UID: "uid-other", Email: "ana@example.com", FullName: "Other"}

			err := service.Create(ctx, p)

			Expect(errors.Is(err, internal.ErrEmailTaken)).To(BeTrue())
		})

		It("should report a lost insert race as a taken email", func() {
			// Given the read check passes but the unique constraint rejects the insert
			repo.createErr = user.ErrDuplicateEmail
			p := &identity.Principal{UID: "uid-race", Email: "race@example.com", FullName: "Race"}

			// When
			err := service.Create(ctx, p)

			// Then the caller sees a conflict instead of an internal error
			Expect(errors.Is(err, internal.ErrEmailTaken)).To(BeTrue())
		})
	})

	Describe("Delete", func() {
		It("should remove the principal", func() {
			Expect(service.Delete(ctx, "uid-ana")).To(Succeed())
			Expect(repo.byUID).NotTo(HaveKey("uid-ana"))
		})

		It("should tolerate an unknown uid", func() {
			Expect(service.Delete(ctx, "missing")).To(Succeed())
		})
	})

	Describe("UpdateProfile", func() {
		It("should apply only the provided fields", func() {
			dto := user.UpdateProfileDTO{EmergencyInfo: strPtr("Mom: 0812")}

			p, err := service.UpdateProfile(ctx, "uid-ana", dto)

			Expect(err).NotTo(HaveOccurred())
			Expect(p.EmergencyInfo).To(Equal("Mom: 0812"))
			Expect(p.FullName).To(Equal("Ana"))
			Expect(repo.lastPatch).NotTo(HaveKey("full_name"))
			Expect(repo.lastPatch).To(HaveKey("updated_at"))
		})

		It("should reject a blank full name", func() {
			_, err := service.UpdateProfile(ctx, "uid-ana", user.UpdateProfileDTO{FullName: strPtr("   ")})

			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Type).To(Equal(internal.ErrorTypeValidation))
		})

		It("should report an unknown user", func() {
			_, err := service.UpdateProfile(ctx, "missing", user.UpdateProfileDTO{FullName: strPtr("X")})

			Expect(errors.Is(err, internal.ErrPrincipalNotFound)).To(BeTrue())
		})
	})

	Describe("SetRole", func() {
		It("should promote an employee to admin", func() {
			Expect(service.SetRole(ctx, "uid-ana", identity.RoleAdmin)).To(Succeed())

			p, err := service.GetByUID(ctx, "uid-ana")
			Expect(err).NotTo(HaveOccurred())
			Expect(p.Role).To(Equal(identity.RoleAdmin))
		})

		It("should reject an unknown role", func() {
			err := service.SetRole(ctx, "uid-ana", identity.Role("owner"))

			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Type).To(Equal(internal.ErrorTypeValidation))
		})

		It("should report an unknown user", func() {
			Expect(errors.Is(service.SetRole(ctx, "missing", identity.RoleAdmin), internal.ErrPrincipalNotFound)).To(BeTrue())
		})
	})
})
