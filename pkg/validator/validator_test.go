package validator

import (
	"context"
	"strings"
	"testing"
)

type currencyProbe struct {
	Currency string `validate:"required,currency"`
}

func TestValidate_CurrencyRule(t *testing.T) {
	t.Parallel()

	ok := []string{"EUR", "USD", "GBP"}
	for _, c := range ok {
		if err := Validate(context.Background(), currencyProbe{Currency: c}); err != nil {
			t.Fatalf("%q should be valid: %v", c, err)
		}
	}

	bad := []string{"eur", "EURO", "E1R", ""}
	for _, c := range bad {
		if err := Validate(context.Background(), currencyProbe{Currency: c}); err == nil {
			t.Fatalf("%q should be invalid", c)
		}
	}
}

func TestValidate_FirstErrorNamesTheField(t *testing.T) {
	t.Parallel()

	err := Validate(context.Background(), currencyProbe{Currency: "xx"})
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "Currency") {
		t.Fatalf("error should name the failing field, got %q", err.Error())
	}
}
