// Package feeschedule loads the payment type fee table from an XML document
// and seeds it into the ledger store.
//
// The document looks like:
//
//	<feeSchedule>
//	    <paymentType code="D" fee="3.00">Cartão de Débito</paymentType>
//	</feeSchedule>
package feeschedule

import (
	"context"
	_ "embed"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/Dan9191/account-ledger/internal/models"
	"github.com/Dan9191/account-ledger/internal/repository"
	"github.com/beevik/etree"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

//go:embed default.xml
var defaultSchedule []byte

var maxFee = decimal.NewFromInt(100)

// Loader reads fee schedules from the embedded default, a file or a URL
type Loader struct {
	client *http.Client
	log    *logrus.Logger
}

// NewLoader initializes a new loader
func NewLoader(log *logrus.Logger) *Loader {
	return &Loader{
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		log: log,
	}
}

// Load reads and parses the schedule at source. An empty source selects the
// embedded default; http(s) URLs are fetched, anything else is a file path.
func (l *Loader) Load(ctx context.Context, source string) ([]models.PaymentType, error) {
	var (
		raw []byte
		err error
	)
	switch {
	case source == "":
		raw = defaultSchedule
	case strings.HasPrefix(source, "http://"), strings.HasPrefix(source, "https://"):
		raw, err = l.fetch(ctx, source)
	default:
		raw, err = os.ReadFile(source)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read fee schedule %q: %w", source, err)
	}

	types, err := Parse(raw)
	if err != nil {
		return nil, err
	}
	l.log.Debugf("Loaded %d payment types from fee schedule", len(types))
	return types, nil
}

func (l *Loader) fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/xml, text/xml")

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	return body, nil
}

// Default returns the embedded schedule
func Default() []models.PaymentType {
	types, err := Parse(defaultSchedule)
	if err != nil {
		panic(err)
	}
	return types
}

// Parse extracts payment types from a fee schedule document
func Parse(raw []byte) ([]models.PaymentType, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(raw); err != nil {
		return nil, fmt.Errorf("failed to parse fee schedule XML: %w", err)
	}

	elements := doc.FindElements("./feeSchedule/paymentType")
	if len(elements) == 0 {
		return nil, fmt.Errorf("no payment types found in fee schedule")
	}

	seen := make(map[string]bool, len(elements))
	types := make([]models.PaymentType, 0, len(elements))
	for _, el := range elements {
		code := strings.TrimSpace(el.SelectAttrValue("code", ""))
		if !models.IsPaymentTypeCode(code) {
			return nil, fmt.Errorf("invalid payment type code %q", code)
		}
		if seen[code] {
			return nil, fmt.Errorf("duplicate payment type code %q", code)
		}
		seen[code] = true

		fee, err := decimal.NewFromString(strings.TrimSpace(el.SelectAttrValue("fee", "")))
		if err != nil {
			return nil, fmt.Errorf("failed to parse fee of payment type %q: %w", code, err)
		}
		if fee.IsNegative() || fee.GreaterThan(maxFee) || fee.Exponent() < -2 {
			return nil, fmt.Errorf("fee of payment type %q must be between 0 and 100 with at most two decimals, got %s", code, fee)
		}

		name := strings.TrimSpace(el.Text())
		if name == "" {
			return nil, fmt.Errorf("payment type %q has no name", code)
		}

		types = append(types, models.PaymentType{Code: code, Name: name, Fee: fee})
	}
	return types, nil
}

// Seed writes the payment types to the store in a single unit of work
func Seed(ctx context.Context, store repository.Store, types []models.PaymentType) error {
	return store.WithTx(ctx, func(q repository.Querier) error {
		for i := range types {
			if err := q.UpsertPaymentType(ctx, &types[i]); err != nil {
				return err
			}
		}
		return nil
	})
}
