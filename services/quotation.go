package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
	"github.com/spf13/cast"
)

// QuotationRequest is the payload of one bulk order submission. QuoteData is
// either the pasted text (IsPasted) or a JSON array of OrderLine.
type QuotationRequest struct {
	QuoteData string `json:"quote_data"`
	IsPasted  bool   `json:"is_processed"`
}

// Validate checks the request has something to process.
func (r QuotationRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.QuoteData, validation.Required.Error("nothing to add to the cart")),
	)
}

// BuildQuotationRequest assembles the submission from the bulk order form.
// A quote_data field is taken as the payload as sent. Without one, pasted
// mode forwards the bulk_paste text verbatim and line-by-line mode collects
// every row in index order and JSON-encodes it.
func BuildQuotationRequest(form url.Values) (QuotationRequest, error) {
	isPasted := cast.ToBool(strings.TrimSpace(form.Get(FieldIsProcessed)))
	if form.Has(FieldQuoteData) {
		return QuotationRequest{QuoteData: form.Get(FieldQuoteData), IsPasted: isPasted}, nil
	}
	if isPasted {
		return QuotationRequest{QuoteData: form.Get(FieldBulkPaste), IsPasted: true}, nil
	}

	data, err := json.Marshal(CollectOrderLines(form))
	if err != nil {
		return QuotationRequest{}, fmt.Errorf("encode order lines: %w", err)
	}
	return QuotationRequest{QuoteData: string(data)}, nil
}

// DecodeOrderLines parses a structured submission.
func DecodeOrderLines(payload string) ([]OrderLine, error) {
	var lines []OrderLine
	if err := json.Unmarshal([]byte(payload), &lines); err != nil {
		return nil, fmt.Errorf("decode order lines: %w", err)
	}
	return lines, nil
}

// QuotationResult summarizes what a submission did to the cart.
type QuotationResult struct {
	CartID  string      `json:"cart_id"`
	Updated int         `json:"updated"`
	Removed int         `json:"removed"`
	Errors  []LineError `json:"errors,omitempty"`
}

// HasErrors reports whether any line was rejected.
func (r *QuotationResult) HasErrors() bool {
	return r != nil && len(r.Errors) > 0
}

// CreateQuotation applies a bulk order submission to the given cart. Lines
// that cannot be applied (unknown item, bad quantity, malformed paste line)
// are collected in the result and do not stop the others. The returned error
// is reserved for request-level and storage failures; on a storage failure
// nothing is written.
func CreateQuotation(app *pocketbase.PocketBase, cartID string, req QuotationRequest) (*QuotationResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var lines []pastedLine
	result := &QuotationResult{CartID: cartID}

	if req.IsPasted {
		var parseErrs []LineError
		lines, parseErrs = parsePastedLines(req.QuoteData)
		result.Errors = append(result.Errors, parseErrs...)
	} else {
		decoded, err := DecodeOrderLines(req.QuoteData)
		if err != nil {
			return nil, err
		}
		for i, l := range decoded {
			lines = append(lines, pastedLine{OrderLine: l, Line: i + 1})
		}
	}

	err := app.RunInTransaction(func(txApp core.App) error {
		for _, l := range lines {
			change, err := UpdateCart(txApp, cartID, l.SKU, l.Qty)
			var lineErr *LineError
			if errors.As(err, &lineErr) {
				lineErr.Line = l.Line
				result.Errors = append(result.Errors, *lineErr)
				continue
			}
			if err != nil {
				return err
			}
			switch change {
			case CartLineRemoved:
				result.Removed++
			case CartLineAdded, CartLineUpdated:
				result.Updated++
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("update cart %s: %w", cartID, err)
	}

	return result, nil
}
