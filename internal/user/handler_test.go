package user_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/frahmantamala/employee-dashboard/internal"
	principalDatamodel "github.com/frahmantamala/employee-dashboard/internal/core/datamodel/principal"
	"github.com/frahmantamala/employee-dashboard/internal/core/identity"
	"github.com/frahmantamala/employee-dashboard/internal/transport"
	"github.com/frahmantamala/employee-dashboard/internal/user"
	userPostgres "github.com/frahmantamala/employee-dashboard/internal/user/postgres"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var _ = Describe("User Handler Integration", func() {
	var (
		handler *user.Handler
		session identity.Session
	)

	BeforeEach(func() {
		slogger := slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))

		db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		})
		Expect(err).NotTo(HaveOccurred())
		sqlDB, err := db.DB()
		Expect(err).NotTo(HaveOccurred())
		sqlDB.SetMaxOpenConns(1)
		Expect(db.AutoMigrate(&principalDatamodel.Principal{})).To(Succeed())

		repo := userPostgres.NewUserRepository(db)
		service := user.NewService(repo, slogger)
		handler = &user.Handler{BaseHandler: &transport.BaseHandler{Logger: slogger}, Service: service}

		session = identity.Session{UID: "uid-ana", Email: "ana@example.com"}
		Expect(service.Create(context.Background(), user.NewPrincipal(session.UID, session.Email, "Ana", time.Now()))).To(Succeed())
	})

	withSession := func(req *http.Request) *http.Request {
		return req.WithContext(internal.ContextWithSession(req.Context(), session))
	}

	It("should return the current user", func() {
		req := withSession(httptest.NewRequest(http.MethodGet, "/users/me", nil))
		w := httptest.NewRecorder()

		handler.GetCurrentUser(w, req)

		Expect(w.Code).To(Equal(http.StatusOK))
		var got identity.Principal
		Expect(json.NewDecoder(w.Body).Decode(&got)).To(Succeed())
		Expect(got.FullName).To(Equal("Ana"))
		Expect(got.Role).To(Equal(identity.RoleEmployee))
	})

	It("should reject a request without a session", func() {
		req := httptest.NewRequest(http.MethodGet, "/users/me", nil)
		w := httptest.NewRecorder()

		handler.GetCurrentUser(w, req)

		Expect(w.Code).To(Equal(http.StatusUnauthorized))
	})

	It("should update the profile", func() {
		body, _ := json.Marshal(map[string]string{"full_name": "Ana Rahma", "other_info": "remote"})
		req := withSession(httptest.NewRequest(http.MethodPatch, "/users/me", bytes.NewReader(body)))
		w := httptest.NewRecorder()

		handler.UpdateCurrentUser(w, req)

		Expect(w.Code).To(Equal(http.StatusOK))
		var got identity.Principal
		Expect(json.NewDecoder(w.Body).Decode(&got)).To(Succeed())
		Expect(got.FullName).To(Equal("Ana Rahma"))
		Expect(got.OtherInfo).To(Equal("remote"))
	})

	It("should refuse to change the email through the profile", func() {
		body, _ := json.Marshal(map[string]string{"email": "new@example.com"})
		req := withSession(httptest.NewRequest(http.MethodPatch, "/users/me", bytes.NewReader(body)))
		w := httptest.NewRecorder()

		handler.UpdateCurrentUser(w, req)

		Expect(w.Code).To(Equal(http.StatusBadRequest))
	})

	It("should list users", func() {
		req := httptest.NewRequest(http.MethodGet, "/users", nil)
		w := httptest.NewRecorder()

		handler.ListUsers(w, req)

		Expect(w.Code).To(Equal(http.StatusOK))
		var got user.ListResponse
		Expect(json.NewDecoder(w.Body).Decode(&got)).To(Succeed())
		Expect(got.Users).To(HaveLen(1))
	})
})
