package controllers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"donation-portal/config"
	"donation-portal/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type fakeGateway struct {
	failCreate    bool
	failFetch     bool
	nextOrderID   string
	createdOrders []int64
	details       PaymentDetails
}

func (g *fakeGateway) CreateOrder(amountPaise int64, currency, receipt string) (string, error) {
	if g.failCreate {
		return "", fmt.Errorf("gateway unavailable")
	}
	g.createdOrders = append(g.createdOrders, amountPaise)
	if g.nextOrderID == "" {
		return "order_1", nil
	}
	return g.nextOrderID, nil
}

func (g *fakeGateway) FetchPayment(paymentID string) (*PaymentDetails, error) {
	if g.failFetch {
		return nil, fmt.Errorf("gateway unavailable")
	}
	d := g.details
	return &d, nil
}

type sentMessage struct {
	To       string
	Body     string
	MediaURL string
}

type fakeMessenger struct {
	mu        sync.Mutex
	failMedia bool
	failText  bool
	texts     []sentMessage
	media     []sentMessage
}

func (m *fakeMessenger) SendText(to, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failText {
		return fmt.Errorf("provider rejected message")
	}
	m.texts = append(m.texts, sentMessage{To: to, Body: body})
	return nil
}

func (m *fakeMessenger) SendMedia(to, body, mediaURL string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failMedia {
		return fmt.Errorf("provider rejected message")
	}
	m.media = append(m.media, sentMessage{To: to, Body: body, MediaURL: mediaURL})
	return nil
}

func (m *fakeMessenger) textCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.texts)
}

func (m *fakeMessenger) mediaCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.media)
}

func (m *fakeMessenger) lastText() sentMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.texts[len(m.texts)-1]
}

func (m *fakeMessenger) lastMedia() sentMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.media[len(m.media)-1]
}

// setupTest wires an in-memory database, fake clients, and a router carrying
// the portal's routes.
func setupTest(t *testing.T) (*fakeGateway, *fakeMessenger, *gin.Engine) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Payment{}))
	config.DB = db

	config.App = &config.Config{
		RazorpayKeyID:        "rzp_test_key",
		RazorpayKeySecret:    "test-secret",
		TwilioWhatsAppNumber: "whatsapp:+14155238886",
		PublicBaseURL:        "http://localhost:8080",
		ReceiptsDir:          t.TempDir(),
	}

	gw := &fakeGateway{details: PaymentDetails{Method: "upi", VPA: "donor@upi"}}
	msgr := &fakeMessenger{}
	gateway = gw
	messenger = msgr
	t.Cleanup(func() {
		gateway = nil
		messenger = nil
	})

	router := gin.New()
	router.POST("/orders", CreateDonationOrder)
	router.POST("/verify-payment", VerifyPayment)
	router.POST("/receipts/send", SendReceipt)
	router.GET("/receipts/:filename", ServeReceipt)
	router.POST("/whatsapp/inbound", InboundWhatsApp)
	router.GET("/donations/report", DownloadDonationsReport)

	return gw, msgr, router
}

func postJSON(t *testing.T, router *gin.Engine, path string, payload interface{}) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func seedPayment(t *testing.T, p models.Payment) models.Payment {
	t.Helper()
	require.NoError(t, config.DB.Create(&p).Error)
	return p
}
