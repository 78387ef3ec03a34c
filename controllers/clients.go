package controllers

import (
	"fmt"
	"net/http"
	"time"

	"donation-portal/config"
	"donation-portal/utils"

	razorpay "github.com/razorpay/razorpay-go"
	"github.com/twilio/twilio-go"
	twilioclient "github.com/twilio/twilio-go/client"
	openapi "github.com/twilio/twilio-go/rest/api/v2010"
)

// PaymentDetails is the slice of a gateway payment the portal cares about.
type PaymentDetails struct {
	Method string
	VPA    string
}

// PaymentGateway creates orders and fetches authoritative payment details.
type PaymentGateway interface {
	CreateOrder(amountPaise int64, currency, receipt string) (string, error)
	FetchPayment(paymentID string) (*PaymentDetails, error)
}

// Messenger delivers WhatsApp messages to a donor.
type Messenger interface {
	SendText(to, body string) error
	SendMedia(to, body, mediaURL string) error
}

var (
	gateway   PaymentGateway
	messenger Messenger
)

// InitClients constructs the gateway and messaging clients from configuration.
// Endpoints that need a missing client report a configuration error at call
// time rather than failing startup, so the rest of the portal stays up.
func InitClients(cfg *config.Config) {
	if cfg.RazorpayKeyID != "" && cfg.RazorpayKeySecret != "" {
		gateway = NewRazorpayGateway(cfg.RazorpayKeyID, cfg.RazorpayKeySecret)
	}
	if cfg.TwilioAccountSID != "" && cfg.TwilioAuthToken != "" {
		messenger = NewTwilioMessenger(cfg)
	}
}

type razorpayGateway struct {
	client *razorpay.Client
}

// NewRazorpayGateway wraps the Razorpay SDK behind the PaymentGateway interface.
func NewRazorpayGateway(keyID, keySecret string) PaymentGateway {
	return &razorpayGateway{client: razorpay.NewClient(keyID, keySecret)}
}

func (g *razorpayGateway) CreateOrder(amountPaise int64, currency, receipt string) (string, error) {
	data := map[string]interface{}{
		"amount":          amountPaise,
		"currency":        currency,
		"receipt":         receipt,
		"payment_capture": 1,
	}
	order, err := g.client.Order.Create(data, nil)
	if err != nil {
		return "", err
	}
	id, ok := order["id"].(string)
	if !ok || id == "" {
		return "", fmt.Errorf("gateway response missing order id")
	}
	return id, nil
}

func (g *razorpayGateway) FetchPayment(paymentID string) (*PaymentDetails, error) {
	payment, err := g.client.Payment.Fetch(paymentID, nil, nil)
	if err != nil {
		return nil, err
	}
	details := &PaymentDetails{}
	if method, ok := payment["method"].(string); ok {
		details.Method = method
	}
	if vpa, ok := payment["vpa"].(string); ok {
		details.VPA = vpa
	}
	return details, nil
}

type twilioMessenger struct {
	client *twilio.RestClient
	from   string
}

// NewTwilioMessenger wraps the Twilio SDK behind the Messenger interface.
// The HTTP client carries a 12 second timeout so sends stay inside the
// provider's webhook budget.
func NewTwilioMessenger(cfg *config.Config) Messenger {
	base := &twilioclient.Client{
		Credentials: twilioclient.NewCredentials(cfg.TwilioAccountSID, cfg.TwilioAuthToken),
		HTTPClient:  &http.Client{Timeout: 12 * time.Second},
	}
	base.SetAccountSid(cfg.TwilioAccountSID)

	rest := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: cfg.TwilioAccountSID,
		Password: cfg.TwilioAuthToken,
		Client:   base,
	})
	return &twilioMessenger{client: rest, from: cfg.TwilioWhatsAppNumber}
}

func (m *twilioMessenger) SendText(to, body string) error {
	params := &openapi.CreateMessageParams{}
	params.SetFrom(m.from)
	params.SetTo(to)
	params.SetBody(body)
	_, err := m.client.Api.CreateMessage(params)
	return err
}

func (m *twilioMessenger) SendMedia(to, body, mediaURL string) error {
	params := &openapi.CreateMessageParams{}
	params.SetFrom(m.from)
	params.SetTo(to)
	params.SetBody(body)
	params.SetMediaUrl([]string{mediaURL})
	_, err := m.client.Api.CreateMessage(params)
	return err
}

// notifyAsync sends a best-effort WhatsApp text without holding up the
// response. Failures are logged, never surfaced.
func notifyAsync(to, body string) {
	m := messenger
	if m == nil {
		return
	}
	go func() {
		if err := m.SendText(to, body); err != nil {
			utils.LogError("Failed to send WhatsApp message to %s: %v", to, err)
		}
	}()
}
