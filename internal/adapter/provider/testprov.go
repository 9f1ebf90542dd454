package provider

import (
	"context"
	"fmt"
	"time"

	"github.com/polkart/storefront/internal/adapter/currency"
	"github.com/polkart/storefront/internal/domain/model"
)

// TestAdapter is a deterministic in-process backend for exercising the
// payment flow without a real gateway. It issues intents locally and accepts
// every cancellation.
type TestAdapter struct {
	converter currency.Converter
	now       func() time.Time
}

// NewTestAdapter constructs the test backend.
func NewTestAdapter(converter currency.Converter) *TestAdapter {
	return &TestAdapter{converter: converter, now: time.Now}
}

func (a *TestAdapter) Name() model.PaymentProvider {
	return model.ProviderTest
}

func (a *TestAdapter) CreateIntent(_ context.Context, amountBaseUnit int64, cur string) (*model.Intent, error) {
	converted, err := a.converter.Convert(amountBaseUnit, cur)
	if err != nil {
		return nil, err
	}
	display, err := a.converter.Format(converted, cur)
	if err != nil {
		return nil, err
	}
	return &model.Intent{
		ID:           fmt.Sprintf("test_intent_%d", a.now().UnixNano()),
		ClientSecret: "..",
		Amount:       display,
		Currency:     cur,
	}, nil
}

func (a *TestAdapter) CancelIntent(context.Context, string) error {
	return nil
}
