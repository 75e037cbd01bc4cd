package access_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/frahmantamala/employee-dashboard/internal"
	"github.com/frahmantamala/employee-dashboard/internal/access"
	"github.com/frahmantamala/employee-dashboard/internal/core/identity"
	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestAccess(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Access Suite")
}

type stubDirectory struct {
	principals map[string]*identity.Principal
	err        error
	block      chan struct{}
}

func (s *stubDirectory) GetByUID(ctx context.Context, uid string) (*identity.Principal, error) {
	if s.block != nil {
		select {
		case <-s.block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if s.err != nil {
		return nil, s.err
	}
	if p, ok := s.principals[uid]; ok {
		return p, nil
	}
	return nil, internal.ErrPrincipalNotFound
}

var quiet = slog.New(slog.NewTextHandler(io.Discard, nil))

var _ = Describe("Authorize", func() {
	employee := &identity.Principal{UID: "e", Role: identity.RoleEmployee}
	admin := &identity.Principal{UID: "a", Role: identity.RoleAdmin}
	undefined := &identity.Principal{UID: "u"}

	DescribeTable("decisions",
		func(p *identity.Principal, c access.Capability, want access.Decision) {
			Expect(access.Authorize(p, c)).To(Equal(want))
		},
		Entry("absent principal is pending for admin views", nil, access.CapabilityAdminOnly, access.DecisionPending),
		Entry("absent principal is pending for any views", nil, access.CapabilityAny, access.DecisionPending),
		Entry("employee is denied admin views", employee, access.CapabilityAdminOnly, access.DecisionDeny),
		Entry("admin is allowed admin views", admin, access.CapabilityAdminOnly, access.DecisionAllow),
		Entry("employee is allowed any views", employee, access.CapabilityAny, access.DecisionAllow),
		Entry("admin is allowed any views", admin, access.CapabilityAny, access.DecisionAllow),
		Entry("undefined role is denied admin views", undefined, access.CapabilityAdminOnly, access.DecisionDeny),
		Entry("undefined role is allowed any views", undefined, access.CapabilityAny, access.DecisionAllow),
		Entry("unknown capability is denied", admin, access.Capability("superuser"), access.DecisionDeny),
	)
})

var _ = Describe("Resolver", func() {
	var (
		dir      *stubDirectory
		resolver *access.Resolver
		session  identity.Session
	)

	BeforeEach(func() {
		dir = &stubDirectory{principals: map[string]*identity.Principal{
			"uid-admin": {UID: "uid-admin", Email: "boss@example.com", Role: identity.RoleAdmin},
		}}
		resolver = access.NewResolver(dir, quiet)
		session = identity.Session{UID: "uid-admin", Email: "boss@example.com"}
	})

	It("should return the directory principal", func() {
		p, err := resolver.Resolve(context.Background(), session)

		Expect(err).NotTo(HaveOccurred())
		Expect(p.Role).To(Equal(identity.RoleAdmin))
	})

	It("should fail closed when the lookup errors", func() {
		dir.err = errors.New("directory unavailable")

		p, err := resolver.Resolve(context.Background(), session)

		Expect(err).NotTo(HaveOccurred())
		Expect(p.Role).To(Equal(identity.RoleUndefined))
		Expect(access.Authorize(p, access.CapabilityAdminOnly)).To(Equal(access.DecisionDeny))
	})

	It("should fail closed for a session with no principal record", func() {
		p, err := resolver.Resolve(context.Background(), identity.Session{UID: "ghost"})

		Expect(err).NotTo(HaveOccurred())
		Expect(p.UID).To(Equal("ghost"))
		Expect(access.Authorize(p, access.CapabilityAdminOnly)).To(Equal(access.DecisionDeny))
	})

	It("should return no principal when the caller abandons resolution", func() {
		dir.block = make(chan struct{})
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		p, err := resolver.Resolve(ctx, session)

		Expect(err).To(MatchError(context.Canceled))
		Expect(p).To(BeNil())
	})
})

var _ = Describe("Authorization middleware", func() {
	var (
		authz   *access.Authorization
		reached *identity.Principal
		next    http.Handler
	)

	BeforeEach(func() {
		dir := &stubDirectory{principals: map[string]*identity.Principal{
			"uid-admin": {UID: "uid-admin", Role: identity.RoleAdmin},
			"uid-emp":   {UID: "uid-emp", Role: identity.RoleEmployee},
		}}
		authz = access.NewAuthorization(access.NewResolver(dir, quiet), quiet)
		reached = nil
		next = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reached, _ = internal.PrincipalFromContext(r.Context())
			w.WriteHeader(http.StatusNoContent)
		})
	})

	serve := func(mw func(http.Handler) http.Handler, uid string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if uid != "" {
			req = req.WithContext(internal.ContextWithSession(req.Context(), identity.Session{UID: uid}))
		}
		w := httptest.NewRecorder()
		mw(next).ServeHTTP(w, req)
		return w
	}

	It("should return 401 without a session", func() {
		w := serve(authz.RequireAny(), "")
		Expect(w.Code).To(Equal(http.StatusUnauthorized))
		Expect(reached).To(BeNil())
	})

	It("should return 403 for an employee on an admin route", func() {
		w := serve(authz.RequireAdmin(), "uid-emp")
		Expect(w.Code).To(Equal(http.StatusForbidden))
		Expect(reached).To(BeNil())
	})

	It("should pass the admin through with the principal in context", func() {
		w := serve(authz.RequireAdmin(), "uid-admin")
		Expect(w.Code).To(Equal(http.StatusNoContent))
		Expect(reached).NotTo(BeNil())
		Expect(reached.UID).To(Equal("uid-admin"))
	})

	It("should let an unknown session reach routes open to any role", func() {
		w := serve(authz.RequireAny(), "uid-ghost")
		Expect(w.Code).To(Equal(http.StatusNoContent))
	})
})

var _ = Describe("ViewAccess handler", func() {
	var router *chi.Mux

	BeforeEach(func() {
		dir := &stubDirectory{principals: map[string]*identity.Principal{
			"uid-emp": {UID: "uid-emp", Role: identity.RoleEmployee},
		}}
		h := access.NewHandler(access.NewResolver(dir, quiet), access.NewViewRegistry())
		router = chi.NewRouter()
		router.Get("/views/{view}/access", h.ViewAccess)
	})

	get := func(view, uid string) access.ViewAccessResponse {
		req := httptest.NewRequest(http.MethodGet, "/views/"+view+"/access", nil)
		if uid != "" {
			req = req.WithContext(internal.ContextWithSession(req.Context(), identity.Session{UID: uid}))
		}
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		Expect(w.Code).To(Equal(http.StatusOK))

		var resp access.ViewAccessResponse
		Expect(json.NewDecoder(w.Body).Decode(&resp)).To(Succeed())
		return resp
	}

	It("should be pending before a session exists", func() {
		Expect(get("manage-leaves", "").Decision).To(Equal(access.DecisionPending))
	})

	It("should deny an employee the admin views", func() {
		resp := get("manage-payrolls", "uid-emp")
		Expect(resp.Capability).To(Equal(access.CapabilityAdminOnly))
		Expect(resp.Decision).To(Equal(access.DecisionDeny))
	})

	It("should allow an employee their own views", func() {
		Expect(get("clock", "uid-emp").Decision).To(Equal(access.DecisionAllow))
	})

	It("should treat unknown views as admin-only", func() {
		resp := get("secret-reports", "uid-emp")
		Expect(resp.Capability).To(Equal(access.CapabilityAdminOnly))
		Expect(resp.Decision).To(Equal(access.DecisionDeny))
	})
})
