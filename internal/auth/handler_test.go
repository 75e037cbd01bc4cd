package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"time"

	"github.com/frahmantamala/employee-dashboard/internal"
	"github.com/frahmantamala/employee-dashboard/internal/core/events"
	"github.com/frahmantamala/employee-dashboard/internal/core/identity"
	"github.com/gorilla/websocket"
	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
	"golang.org/x/crypto/bcrypt"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func errorCode(rec *httptest.ResponseRecorder) internal.ErrorCode {
	var body struct {
		Error struct {
			Code internal.ErrorCode `json:"code"`
		} `json:"error"`
	}
	gomega.Expect(json.Unmarshal(rec.Body.Bytes(), &body)).To(gomega.Succeed())
	return body.Error.Code
}

var _ = ginkgo.Describe("AuthHandler", func() {
	var (
		service   *Service
		handler   *Handler
		publisher *recordingPublisher
		tokenGen  *JWTTokenGenerator
	)

	ginkgo.BeforeEach(func() {
		publisher = &recordingPublisher{}
		tokenGen = NewJWTTokenGenerator("test-access-secret", "test-refresh-secret", 15*time.Minute, time.Hour)
		service = NewService(newMockCredentials(), newMockClaims(), newMockDirectory(), tokenGen, publisher, bcrypt.MinCost, discardLogger())
		handler = NewHandler(service)
		handler.Logger = discardLogger()
	})

	post := func(h http.HandlerFunc, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		h(rec, req)
		return rec
	}

	ginkgo.Describe("Signup and Signin", func() {
		ginkgo.It("should register and then sign in", func() {
			rec := post(handler.Signup, `{"email":"siti@example.com","password":"correct_password","full_name":"Siti"}`)
			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusCreated))

			var p identity.Principal
			gomega.Expect(json.Unmarshal(rec.Body.Bytes(), &p)).To(gomega.Succeed())
			gomega.Expect(p.Role).To(gomega.Equal(identity.RoleEmployee))

			rec = post(handler.Signin, `{"email":"siti@example.com","password":"correct_password"}`)
			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusOK))

			var tokens AuthTokens
			gomega.Expect(json.Unmarshal(rec.Body.Bytes(), &tokens)).To(gomega.Succeed())
			gomega.Expect(tokens.AccessToken).NotTo(gomega.BeEmpty())
		})

		ginkgo.It("should answer 409 for a taken email", func() {
			body := `{"email":"siti@example.com","password":"correct_password","full_name":"Siti"}`
			gomega.Expect(post(handler.Signup, body).Code).To(gomega.Equal(http.StatusCreated))

			rec := post(handler.Signup, body)
			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusConflict))
			gomega.Expect(errorCode(rec)).To(gomega.Equal(internal.ErrCodeEmailTaken))
		})

		ginkgo.It("should answer 401 for bad credentials", func() {
			rec := post(handler.Signin, `{"email":"nobody@example.com","password":"whatever"}`)
			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusUnauthorized))
			gomega.Expect(errorCode(rec)).To(gomega.Equal(internal.ErrCodeInvalidCredentials))
		})

		ginkgo.It("should answer 400 for malformed bodies", func() {
			gomega.Expect(post(handler.Signin, `{`).Code).To(gomega.Equal(http.StatusBadRequest))
			gomega.Expect(post(handler.Signin, `{"email":"a@b.c","password":"x","extra":1}`).Code).To(gomega.Equal(http.StatusBadRequest))
		})
	})

	ginkgo.Describe("Refresh", func() {
		ginkgo.It("should require a refresh token", func() {
			rec := post(handler.Refresh, `{}`)
			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusBadRequest))
		})

		ginkgo.It("should answer 401 for an invalid token", func() {
			rec := post(handler.Refresh, `{"refresh_token":"garbage"}`)
			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusUnauthorized))
			gomega.Expect(errorCode(rec)).To(gomega.Equal(internal.ErrCodeInvalidToken))
		})
	})

	ginkgo.Describe("RequireSession", func() {
		var protected http.Handler

		ginkgo.BeforeEach(func() {
			protected = handler.RequireSession(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				session, ok := internal.SessionFromContext(r.Context())
				gomega.Expect(ok).To(gomega.BeTrue())
				_, _ = w.Write([]byte(session.UID))
			}))
		})

		ginkgo.It("should put the session in the context", func() {
			token, err := tokenGen.GenerateAccessToken("uid-1", "a@example.com", identity.RoleEmployee)
			gomega.Expect(err).NotTo(gomega.HaveOccurred())

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.Header.Set("Authorization", "Bearer "+token)
			rec := httptest.NewRecorder()
			protected.ServeHTTP(rec, req)

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusOK))
			gomega.Expect(rec.Body.String()).To(gomega.Equal("uid-1"))
		})

		ginkgo.It("should answer 401 without a token", func() {
			rec := httptest.NewRecorder()
			protected.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusUnauthorized))
			gomega.Expect(errorCode(rec)).To(gomega.Equal(internal.ErrCodeSessionRequired))
		})

		ginkgo.It("should refuse a refresh token as bearer", func() {
			token, err := tokenGen.GenerateRefreshToken("uid-1", "a@example.com", identity.RoleEmployee)
			gomega.Expect(err).NotTo(gomega.HaveOccurred())

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.Header.Set("Authorization", "Bearer "+token)
			rec := httptest.NewRecorder()
			protected.ServeHTTP(rec, req)

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusUnauthorized))
		})

		ginkgo.It("should ignore the query token on plain requests", func() {
			token, err := tokenGen.GenerateAccessToken("uid-1", "a@example.com", identity.RoleEmployee)
			gomega.Expect(err).NotTo(gomega.HaveOccurred())

			rec := httptest.NewRecorder()
			protected.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/?access_token="+token, nil))

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusUnauthorized))
		})
	})

	ginkgo.Describe("OptionalSession", func() {
		ginkgo.It("should pass anonymous requests through", func() {
			var sawSession bool
			h := handler.OptionalSession(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, sawSession = internal.SessionFromContext(r.Context())
				w.WriteHeader(http.StatusOK)
			}))

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.Header.Set("Authorization", "Bearer garbage")
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusOK))
			gomega.Expect(sawSession).To(gomega.BeFalse())
		})
	})

	ginkgo.Describe("Logout", func() {
		ginkgo.It("should publish sign out and answer 204", func() {
			req := httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(nil))
			req = req.WithContext(internal.ContextWithSession(req.Context(), identity.Session{UID: "uid-1", Email: "a@example.com"}))
			rec := httptest.NewRecorder()

			handler.Logout(rec, req)

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusNoContent))
			gomega.Expect(publisher.types()).To(gomega.ContainElement(events.EventTypeSessionSignedOut))
		})

		ginkgo.It("should answer 401 without a session", func() {
			rec := httptest.NewRecorder()
			handler.Logout(rec, httptest.NewRequest(http.MethodPost, "/", nil))
			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusUnauthorized))
		})
	})
})

var _ = ginkgo.Describe("SessionNotifier", func() {
	var (
		notifier *SessionNotifier
		server   *httptest.Server
		tokenGen *JWTTokenGenerator
		bus      *events.EventBus
	)

	ginkgo.BeforeEach(func() {
		tokenGen = NewJWTTokenGenerator("test-access-secret", "test-refresh-secret", 15*time.Minute, time.Hour)
		service := NewService(newMockCredentials(), newMockClaims(), newMockDirectory(), tokenGen, &recordingPublisher{}, bcrypt.MinCost, discardLogger())
		handler := NewHandler(service)
		handler.Logger = discardLogger()

		notifier = NewSessionNotifier("https://dashboard.example.com", discardLogger())
		bus = events.NewEventBus(discardLogger())
		notifier.Register(bus)

		server = httptest.NewServer(handler.RequireSession(http.HandlerFunc(notifier.Stream)))
	})

	ginkgo.AfterEach(func() {
		server.Close()
	})

	dial := func(uid string) *websocket.Conn {
		token, err := tokenGen.GenerateAccessToken(uid, uid+"@example.com", identity.RoleEmployee)
		gomega.Expect(err).NotTo(gomega.HaveOccurred())

		url := "ws" + strings.TrimPrefix(server.URL, "http") + "?access_token=" + token
		conn, _, err := websocket.DefaultDialer.Dial(url, nil)
		gomega.Expect(err).NotTo(gomega.HaveOccurred())
		gomega.Eventually(func() int { return notifier.Subscribers(uid) }).Should(gomega.Equal(1))
		return conn
	}

	ginkgo.It("should deliver events to the principal they concern", func() {
		conn := dial("uid-1")
		defer conn.Close()

		gomega.Expect(bus.PublishSync(context.Background(), events.NewSessionEvent(events.EventTypeSessionSignedIn, "uid-1", "uid-1@example.com"))).To(gomega.Succeed())

		_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
		var msg SessionMessage
		gomega.Expect(conn.ReadJSON(&msg)).To(gomega.Succeed())
		gomega.Expect(msg.Type).To(gomega.Equal(events.EventTypeSessionSignedIn))
		gomega.Expect(msg.Data).To(gomega.HaveKeyWithValue("uid", "uid-1"))
	})

	ginkgo.It("should route leave decisions to the request owner", func() {
		conn := dial("uid-2")
		defer conn.Close()

		gomega.Expect(bus.PublishSync(context.Background(), events.NewLeaveStatusChangedEvent(7, "uid-2", "Approved", "uid-admin"))).To(gomega.Succeed())

		_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
		var msg SessionMessage
		gomega.Expect(conn.ReadJSON(&msg)).To(gomega.Succeed())
		gomega.Expect(msg.Type).To(gomega.Equal(events.EventTypeLeaveStatusChanged))
		gomega.Expect(msg.Data).To(gomega.HaveKeyWithValue("status", "Approved"))
	})

	ginkgo.It("should not leak events to other principals", func() {
		conn := dial("uid-1")
		defer conn.Close()

		gomega.Expect(notifier.Handle(context.Background(), events.NewSessionEvent(events.EventTypeSessionSignedOut, "uid-9", "x@example.com"))).To(gomega.Succeed())

		_ = conn.SetReadDeadline(time.Now().Add(200 * time.Millisecond))
		_, _, err := conn.ReadMessage()
		gomega.Expect(err).To(gomega.HaveOccurred())
	})

	ginkgo.It("should drop the subscription when the client disconnects", func() {
		conn := dial("uid-1")
		gomega.Expect(conn.Close()).To(gomega.Succeed())

		gomega.Eventually(func() int { return notifier.Subscribers("uid-1") }, 2*time.Second).Should(gomega.BeZero())
	})

	ginkgo.It("should refuse the handshake from an origin outside the allowlist", func() {
		token, err := tokenGen.GenerateAccessToken("uid-1", "uid-1@example.com", identity.RoleEmployee)
		gomega.Expect(err).NotTo(gomega.HaveOccurred())

		url := "ws" + strings.TrimPrefix(server.URL, "http") + "?access_token=" + token
		_, resp, err := websocket.DefaultDialer.Dial(url, http.Header{"Origin": []string{"https://evil.example.net"}})
		gomega.Expect(err).To(gomega.HaveOccurred())
		gomega.Expect(resp.StatusCode).To(gomega.Equal(http.StatusForbidden))
		gomega.Expect(notifier.Subscribers("uid-1")).To(gomega.BeZero())
	})

	ginkgo.It("should accept the handshake from an allowed origin", func() {
		token, err := tokenGen.GenerateAccessToken("uid-1", "uid-1@example.com", identity.RoleEmployee)
		gomega.Expect(err).NotTo(gomega.HaveOccurred())

		url := "ws" + strings.TrimPrefix(server.URL, "http") + "?access_token=" + token
		conn, _, err := websocket.DefaultDialer.Dial(url, http.Header{"Origin": []string{"https://dashboard.example.com"}})
		gomega.Expect(err).NotTo(gomega.HaveOccurred())
		defer conn.Close()
		gomega.Eventually(func() int { return notifier.Subscribers("uid-1") }).Should(gomega.Equal(1))
	})

	ginkgo.It("should refuse the handshake without a token", func() {
		url := "ws" + strings.TrimPrefix(server.URL, "http")
		_, resp, err := websocket.DefaultDialer.Dial(url, nil)
		gomega.Expect(err).To(gomega.HaveOccurred())
		gomega.Expect(resp.StatusCode).To(gomega.Equal(http.StatusUnauthorized))
	})
})
