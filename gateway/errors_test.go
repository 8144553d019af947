package gateway_test

import (
	"errors"
	"testing"

	"github.com/Paul200287/GradeTracker/gateway"
	"github.com/stretchr/testify/require"
)

func TestMessageFromBody(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"detail list", `{"detail":[{"loc":["body","name"],"msg":"required"}]}`, "body.name: required"},
		{"detail list with several items", `{"detail":[{"loc":["body","name"],"msg":"required"},{"loc":["body","semester"],"msg":"too long"}]}`, "body.name: required, body.semester: too long"},
		{"detail list with index", `{"detail":[{"loc":["body","items",0],"msg":"bad"}]}`, "body.items.0: bad"},
		{"detail list without loc", `{"detail":[{"msg":"bad"}]}`, ": bad"},
		{"empty detail list", `{"detail":[],"message":"ignored"}`, ""},
		{"null detail falls through", `{"detail":null,"message":"used"}`, "used"},
		{"detail string", `{"detail":"bad"}`, "bad"},
		{"detail wins over message", `{"detail":"bad","message":"other"}`, "bad"},
		{"message", `{"message":"Subject not found"}`, "Subject not found"},
		{"empty object", `{}`, gateway.FallbackMessage},
		{"non-string message", `{"message":42}`, gateway.FallbackMessage},
		{"empty detail string", `{"detail":"","message":"used"}`, "used"},
		{"not json", `<html>502</html>`, gateway.FallbackMessage},
		{"empty body", ``, gateway.FallbackMessage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, gateway.MessageFromBody([]byte(tt.body)))
		})
	}
}

func TestErrorMessage(t *testing.T) {
	t.Run("response error uses body", func(t *testing.T) {
		err := &gateway.ResponseError{StatusCode: 404, Body: []byte(`{"detail":"Subject not found"}`)}
		require.Equal(t, "Subject not found", gateway.ErrorMessage(err))
	})

	t.Run("response error with empty body", func(t *testing.T) {
		err := &gateway.ResponseError{StatusCode: 500, Body: []byte(`{}`)}
		require.Equal(t, gateway.FallbackMessage, gateway.ErrorMessage(err))
	})

	t.Run("response error with empty detail list", func(t *testing.T) {
		err := &gateway.ResponseError{StatusCode: 422, Body: []byte(`{"detail":[]}`)}
		require.Equal(t, gateway.FallbackMessage, gateway.ErrorMessage(err))
	})

	t.Run("other error uses its message", func(t *testing.T) {
		require.Equal(t, "network down", gateway.ErrorMessage(errors.New("network down")))
	})

	t.Run("nil", func(t *testing.T) {
		require.Equal(t, gateway.FallbackMessage, gateway.ErrorMessage(nil))
	})
}
