package e2e

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"gymstudio/internal/config"
	"gymstudio/internal/database"
	"gymstudio/internal/domain"
	"gymstudio/internal/middleware"
	"gymstudio/internal/modules/appointment"
	"gymstudio/internal/modules/attendance"
	"gymstudio/internal/modules/lead"
	"gymstudio/internal/modules/livefeed"
	"gymstudio/internal/modules/payment"
	"gymstudio/internal/modules/registration"
	"gymstudio/internal/notification"
	jwtsvc "gymstudio/internal/pkg/jwt"
	"gymstudio/internal/repository"
)

const gatewaySecret = "e2e-gateway-secret"

type E2ETestSuite struct {
	router     *gin.Engine
	db         *gorm.DB
	jwtService *jwtsvc.Service
	staffToken string
	gateway    *httptest.Server
}

type TestResponse struct {
	Success bool                   `json:"success"`
	Data    map[string]interface{} `json:"data,omitempty"`
	Error   *ErrorDetail           `json:"error,omitempty"`
}

type ErrorDetail struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// fakeGateway answers order creation and lookup like the hosted provider.
func fakeGateway() *httptest.Server {
	var seq int64
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/orders", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		n := atomic.AddInt64(&seq, 1)
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"id":"order_e2e_%d","status":"created"}`, n)
	})
	mux.HandleFunc("/v1/orders/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"id":"%s","status":"paid"}`, r.URL.Path[len("/v1/orders/"):])
	})
	return httptest.NewServer(mux)
}

func setupTestSuite(t *testing.T) *E2ETestSuite {
	db, err := database.Connect("file::memory:?cache=shared")
	require.NoError(t, err, "Failed to connect to test database")

	// SQLite allows one writer at a time; a single pooled connection queues
	// concurrent request transactions instead of surfacing busy errors.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.Migrate(db))

	// Start each suite from a clean slate; the shared-cache DB survives
	// between connections within the process.
	for _, table := range []string{"event_registrations", "payments", "appointments", "attendance_logs", "leads", "clients", "events"} {
		require.NoError(t, db.Exec("DELETE FROM "+table).Error)
	}

	gw := fakeGateway()
	t.Cleanup(gw.Close)

	gwCfg := &config.GatewayConfig{
		KeyID:     "e2e_key",
		KeySecret: gatewaySecret,
		BaseURL:   gw.URL,
		Currency:  "INR",
		Timeout:   5 * time.Second,
	}

	eventRepo := repository.NewEventRepository(db)
	regRepo := repository.NewRegistrationRepository(db)
	apptRepo := repository.NewAppointmentRepository(db)
	payRepo := repository.NewPaymentRepository(db)
	attRepo := repository.NewAttendanceRepository(db)
	clientRepo := repository.NewClientRepository(db)
	leadRepo := repository.NewLeadRepository(db)

	jwtService := jwtsvc.New("test_secret_key_32_characters_min", 24*time.Hour)
	staffToken, err := jwtService.GenerateToken(1, "manager")
	require.NoError(t, err)

	sender := notification.NewLogSender()
	hub := livefeed.NewHub()
	t.Cleanup(hub.Close)

	regHandler := registration.NewHandler(registration.NewService(eventRepo, regRepo, sender))
	apptHandler := appointment.NewHandler(appointment.NewService(apptRepo, clientRepo))
	payHandler := payment.NewHandler(payment.NewService(regRepo, eventRepo, payRepo, payment.NewHTTPGateway(gwCfg), sender, gwCfg, nil))
	attHandler := attendance.NewHandler(attendance.NewService(attRepo, apptRepo, hub, nil))
	leadHandler := lead.NewHandler(lead.NewService(leadRepo, nil))
	feedHandler := livefeed.NewHandler(hub, nil)

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(gin.Recovery())

	v1 := r.Group("/api/v1")

	regHandler.RegisterRoutes(v1)
	payHandler.RegisterRoutes(v1)
	apptHandler.RegisterPublicRoutes(v1)
	leadHandler.RegisterPublicRoutes(v1)

	staff := v1.Group("")
	staff.Use(middleware.JWTAuth(jwtService))
	{
		regHandler.RegisterStaffRoutes(staff)
		apptHandler.RegisterStaffRoutes(staff)
		attHandler.RegisterRoutes(staff)
		leadHandler.RegisterStaffRoutes(staff)
		feedHandler.RegisterRoutes(staff)
	}

	return &E2ETestSuite{
		router:     r,
		db:         db,
		jwtService: jwtService,
		staffToken: staffToken,
		gateway:    gw,
	}
}

func (s *E2ETestSuite) makeRequest(method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	var bodyBytes []byte
	if body != nil {
		bodyBytes, _ = json.Marshal(body)
	}

	req := httptest.NewRequest(method, path, bytes.NewBuffer(bodyBytes))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func parseResponse(t *testing.T, w *httptest.ResponseRecorder) *TestResponse {
	var resp TestResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), "body: %s", w.Body.String())
	return &resp
}

func (s *E2ETestSuite) seedEvent(t *testing.T, ev *domain.Event) {
	require.NoError(t, s.db.Create(ev).Error)
}

func signPayment(orderID, paymentID string) string {
	mac := hmac.New(sha256.New, []byte(gatewaySecret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

func TestFlow1_FreeEventRegistrationAndCapacity(t *testing.T) {
	suite := setupTestSuite(t)

	one := 1
	suite.seedEvent(t, &domain.Event{
		Title:       "Open Day",
		Slug:        "open-day",
		Price:       0,
		MaxCapacity: &one,
		Active:      true,
	})

	var firstID int64
	t.Run("first registration is confirmed directly", func(t *testing.T) {
		w := suite.makeRequest("POST", "/api/v1/events/open-day/register", map[string]interface{}{
			"name":  "Aida Bekova",
			"phone": "+77000001122",
			"attribution": map[string]interface{}{
				"utm_source": "instagram",
			},
		}, "")
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		resp := parseResponse(t, w)
		assert.True(t, resp.Success)
		assert.Equal(t, "confirmed", resp.Data["status"])
		firstID = int64(resp.Data["id"].(float64))
	})

	t.Run("second registration hits capacity", func(t *testing.T) {
		w := suite.makeRequest("POST", "/api/v1/events/open-day/register", map[string]interface{}{
			"name":  "Daniyar Serik",
			"phone": "+77000003344",
		}, "")
		require.Equal(t, http.StatusConflict, w.Code, w.Body.String())

		resp := parseResponse(t, w)
		assert.False(t, resp.Success)
		assert.Equal(t, "EVENT_FULL", resp.Error.Code)
	})

	t.Run("attribution survives storage", func(t *testing.T) {
		var reg domain.Registration
		require.NoError(t, suite.db.First(&reg, firstID).Error)
		assert.Equal(t, "instagram", reg.Attribution.UTMSource)
	})

	t.Run("staff can look up the registration", func(t *testing.T) {
		w := suite.makeRequest("GET", fmt.Sprintf("/api/v1/registrations/%d", firstID), nil, suite.staffToken)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		resp := parseResponse(t, w)
		assert.Equal(t, "confirmed", resp.Data["status"])

		w = suite.makeRequest("GET", fmt.Sprintf("/api/v1/registrations/%d", firstID), nil, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("unknown event is 404", func(t *testing.T) {
		w := suite.makeRequest("POST", "/api/v1/events/no-such-event/register", map[string]interface{}{
			"name":  "Ghost",
			"phone": "+77000000000",
		}, "")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestConcurrentRegistrationsRespectCapacity(t *testing.T) {
	suite := setupTestSuite(t)

	one := 1
	ev := &domain.Event{
		Title:       "Last Spot Sprint",
		Slug:        "last-spot-sprint",
		MaxCapacity: &one,
		Active:      true,
	}
	suite.seedEvent(t, ev)

	// Two racers, one place. Whatever the interleaving, exactly one claim
	// may survive the capacity transaction.
	codes := make(chan int, 2)
	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			w := suite.makeRequest("POST", "/api/v1/events/last-spot-sprint/register", map[string]interface{}{
				"name":  fmt.Sprintf("Racer %d", n),
				"phone": fmt.Sprintf("+7700000880%d", n),
			}, "")
			codes <- w.Code
		}(i)
	}
	wg.Wait()
	close(codes)

	var created, conflicted int
	for code := range codes {
		switch code {
		case http.StatusCreated:
			created++
		case http.StatusConflict:
			conflicted++
		default:
			t.Fatalf("unexpected status %d", code)
		}
	}
	assert.Equal(t, 1, created, "exactly one registration may win the last place")
	assert.Equal(t, 1, conflicted, "the loser must see EVENT_FULL, not an error")

	var count int64
	require.NoError(t, suite.db.Model(&domain.Registration{}).Where("event_id = ?", ev.ID).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestFlow2_PaidEventHappyPath(t *testing.T) {
	suite := setupTestSuite(t)

	suite.seedEvent(t, &domain.Event{
		Title:  "Strength Workshop",
		Slug:   "strength-workshop",
		Price:  999,
		Active: true,
	})

	var regID int64
	var orderID string

	t.Run("registration starts pending", func(t *testing.T) {
		w := suite.makeRequest("POST", "/api/v1/events/strength-workshop/register", map[string]interface{}{
			"name":  "Aida Bekova",
			"phone": "+77000001122",
		}, "")
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		resp := parseResponse(t, w)
		assert.Equal(t, "pending", resp.Data["status"])
		regID = int64(resp.Data["id"].(float64))
	})

	t.Run("order creation converts to minor units", func(t *testing.T) {
		w := suite.makeRequest("POST", "/api/v1/payments/orders", map[string]interface{}{
			"registration_id": regID,
			"amount":          "999",
		}, "")
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		resp := parseResponse(t, w)
		assert.Equal(t, float64(99900), resp.Data["amount"])
		assert.Equal(t, "INR", resp.Data["currency"])
		orderID = resp.Data["order_id"].(string)
		require.NotEmpty(t, orderID)
	})

	t.Run("valid signature confirms registration", func(t *testing.T) {
		w := suite.makeRequest("POST", "/api/v1/payments/verify", map[string]interface{}{
			"order_id":        orderID,
			"payment_id":      "pay_e2e_1",
			"signature":       signPayment(orderID, "pay_e2e_1"),
			"registration_id": regID,
		}, "")
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		resp := parseResponse(t, w)
		assert.Equal(t, "paid", resp.Data["status"])
		assert.Equal(t, "confirmed", resp.Data["registration_status"])
	})

	t.Run("verification replay is a no-op success", func(t *testing.T) {
		w := suite.makeRequest("POST", "/api/v1/payments/verify", map[string]interface{}{
			"order_id":        orderID,
			"payment_id":      "pay_e2e_1",
			"signature":       signPayment(orderID, "pay_e2e_1"),
			"registration_id": regID,
		}, "")
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var reg domain.Registration
		require.NoError(t, suite.db.First(&reg, regID).Error)
		assert.Equal(t, domain.RegistrationConfirmed, reg.Status)
	})
}

func TestFlow3_PaymentRejections(t *testing.T) {
	suite := setupTestSuite(t)

	suite.seedEvent(t, &domain.Event{
		Title:  "Priced Class",
		Slug:   "priced-class",
		Price:  999,
		Active: true,
	})

	register := func(t *testing.T, phone string) int64 {
		w := suite.makeRequest("POST", "/api/v1/events/priced-class/register", map[string]interface{}{
			"name":  "Test Person",
			"phone": phone,
		}, "")
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		return int64(parseResponse(t, w).Data["id"].(float64))
	}

	t.Run("amount mismatch is rejected with diagnostics", func(t *testing.T) {
		regID := register(t, "+77000005501")

		w := suite.makeRequest("POST", "/api/v1/payments/orders", map[string]interface{}{
			"registration_id": regID,
			"amount":          "500",
		}, "")
		require.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())

		resp := parseResponse(t, w)
		assert.Equal(t, "AMOUNT_MISMATCH", resp.Error.Code)
	})

	t.Run("malformed amount is a validation error", func(t *testing.T) {
		regID := register(t, "+77000005502")

		w := suite.makeRequest("POST", "/api/v1/payments/orders", map[string]interface{}{
			"registration_id": regID,
			"amount":          "9.999",
		}, "")
		require.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
		assert.Equal(t, "VALIDATION_ERROR", parseResponse(t, w).Error.Code)
	})

	t.Run("forged signature fails payment and registration", func(t *testing.T) {
		regID := register(t, "+77000005503")

		w := suite.makeRequest("POST", "/api/v1/payments/orders", map[string]interface{}{
			"registration_id": regID,
			"amount":          "999",
		}, "")
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		orderID := parseResponse(t, w).Data["order_id"].(string)

		w = suite.makeRequest("POST", "/api/v1/payments/verify", map[string]interface{}{
			"order_id":        orderID,
			"payment_id":      "pay_forged",
			"signature":       "deadbeef",
			"registration_id": regID,
		}, "")
		require.Equal(t, http.StatusForbidden, w.Code, w.Body.String())
		assert.Equal(t, "SIGNATURE_INVALID", parseResponse(t, w).Error.Code)

		var reg domain.Registration
		require.NoError(t, suite.db.First(&reg, regID).Error)
		assert.Equal(t, domain.RegistrationFailed, reg.Status)

		var p domain.Payment
		require.NoError(t, suite.db.Where("provider_order_id = ?", orderID).First(&p).Error)
		assert.Equal(t, domain.PaymentFailed, p.Status)
	})

	t.Run("paid callback cannot confirm another registration", func(t *testing.T) {
		paidRegID := register(t, "+77000005504")
		victimRegID := register(t, "+77000005505")

		w := suite.makeRequest("POST", "/api/v1/payments/orders", map[string]interface{}{
			"registration_id": paidRegID,
			"amount":          "999",
		}, "")
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		orderID := parseResponse(t, w).Data["order_id"].(string)

		// Legitimately pay for the first registration.
		w = suite.makeRequest("POST", "/api/v1/payments/verify", map[string]interface{}{
			"order_id":        orderID,
			"payment_id":      "pay_e2e_owned",
			"signature":       signPayment(orderID, "pay_e2e_owned"),
			"registration_id": paidRegID,
		}, "")
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		// Replay the genuinely valid callback against a registration the
		// order was never opened for.
		w = suite.makeRequest("POST", "/api/v1/payments/verify", map[string]interface{}{
			"order_id":        orderID,
			"payment_id":      "pay_e2e_owned",
			"signature":       signPayment(orderID, "pay_e2e_owned"),
			"registration_id": victimRegID,
		}, "")
		require.Equal(t, http.StatusForbidden, w.Code, w.Body.String())
		assert.Equal(t, "REGISTRATION_MISMATCH", parseResponse(t, w).Error.Code)

		var victim domain.Registration
		require.NoError(t, suite.db.First(&victim, victimRegID).Error)
		assert.Equal(t, domain.RegistrationPending, victim.Status)
	})

	t.Run("unknown order id changes nothing", func(t *testing.T) {
		victimRegID := register(t, "+77000005506")

		w := suite.makeRequest("POST", "/api/v1/payments/verify", map[string]interface{}{
			"order_id":        "order_does_not_exist",
			"payment_id":      "pay_ghost",
			"signature":       "deadbeef",
			"registration_id": victimRegID,
		}, "")
		require.Equal(t, http.StatusNotFound, w.Code, w.Body.String())
		assert.Equal(t, "NOT_FOUND", parseResponse(t, w).Error.Code)

		var victim domain.Registration
		require.NoError(t, suite.db.First(&victim, victimRegID).Error)
		assert.Equal(t, domain.RegistrationPending, victim.Status)

		// The registration stays payable.
		w = suite.makeRequest("POST", "/api/v1/payments/orders", map[string]interface{}{
			"registration_id": victimRegID,
			"amount":          "999",
		}, "")
		assert.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	})
}

func TestFlow4_AppointmentsAndAttendance(t *testing.T) {
	suite := setupTestSuite(t)

	client := &domain.Client{Name: "Aida Bekova", Phone: "+77000001122"}
	require.NoError(t, suite.db.Create(client).Error)

	// A Monday; the weekday grid applies.
	const date = "2025-06-02"

	t.Run("slot grid is public", func(t *testing.T) {
		w := suite.makeRequest("GET", "/api/v1/schedule/slots?date="+date, nil, "")
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		resp := parseResponse(t, w)
		slots := resp.Data["slots"].([]interface{})
		assert.Len(t, slots, 27)
	})

	t.Run("booking requires auth", func(t *testing.T) {
		w := suite.makeRequest("POST", "/api/v1/appointments", map[string]interface{}{
			"date":       date,
			"start_time": "11:00",
			"title":      "Intro session",
		}, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("booking and slot conflict", func(t *testing.T) {
		body := map[string]interface{}{
			"date":       date,
			"start_time": "11:00",
			"title":      "Intro session",
			"client_id":  client.ID,
		}

		w := suite.makeRequest("POST", "/api/v1/appointments", body, suite.staffToken)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		resp := parseResponse(t, w)
		assert.Equal(t, "11:20", resp.Data["end_time"])

		w = suite.makeRequest("POST", "/api/v1/appointments", body, suite.staffToken)
		require.Equal(t, http.StatusConflict, w.Code, w.Body.String())
		assert.Equal(t, "SLOT_TAKEN", parseResponse(t, w).Error.Code)
	})

	t.Run("off-grid start time is rejected", func(t *testing.T) {
		w := suite.makeRequest("POST", "/api/v1/appointments", map[string]interface{}{
			"date":       date,
			"start_time": "11:10",
			"title":      "Off grid",
		}, suite.staffToken)
		require.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
		assert.Equal(t, "SLOT_INVALID", parseResponse(t, w).Error.Code)
	})

	t.Run("check-in, double check-in, check-out cycle", func(t *testing.T) {
		w := suite.makeRequest("POST", "/api/v1/attendance/checkin", map[string]interface{}{
			"client_id": client.ID,
		}, suite.staffToken)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		logID := int64(parseResponse(t, w).Data["id"].(float64))

		w = suite.makeRequest("POST", "/api/v1/attendance/checkin", map[string]interface{}{
			"client_id": client.ID,
		}, suite.staffToken)
		require.Equal(t, http.StatusConflict, w.Code, w.Body.String())
		assert.Equal(t, "ALREADY_CHECKED_IN", parseResponse(t, w).Error.Code)

		w = suite.makeRequest("POST", "/api/v1/attendance/checkout", map[string]interface{}{
			"attendance_log_id": logID,
		}, suite.staffToken)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.NotNil(t, parseResponse(t, w).Data["check_out_at"])

		w = suite.makeRequest("POST", "/api/v1/attendance/checkout", map[string]interface{}{
			"attendance_log_id": logID,
		}, suite.staffToken)
		require.Equal(t, http.StatusConflict, w.Code, w.Body.String())
		assert.Equal(t, "ALREADY_CHECKED_OUT", parseResponse(t, w).Error.Code)
	})

	t.Run("attendance export is CSV", func(t *testing.T) {
		w := suite.makeRequest("GET", "/api/v1/attendance/export", nil, suite.staffToken)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.Contains(t, w.Header().Get("Content-Type"), "text/csv")
		assert.Contains(t, w.Body.String(), "log_id,client_id,client_name")
	})
}

func TestFlow5_Leads(t *testing.T) {
	suite := setupTestSuite(t)

	t.Run("lead capture is public", func(t *testing.T) {
		w := suite.makeRequest("POST", "/api/v1/leads", map[string]interface{}{
			"name":  "Dana",
			"phone": "+77000007788",
			"attribution": map[string]interface{}{
				"utm_source":   "google",
				"utm_campaign": "autumn",
			},
		}, "")
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		assert.Equal(t, "new", parseResponse(t, w).Data["status"])
	})

	t.Run("lead export requires auth", func(t *testing.T) {
		w := suite.makeRequest("GET", "/api/v1/leads/export", nil, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("lead export contains the lead", func(t *testing.T) {
		w := suite.makeRequest("GET", "/api/v1/leads/export", nil, suite.staffToken)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.Contains(t, w.Body.String(), "Dana")
		assert.Contains(t, w.Body.String(), "google")
	})
}

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}
