package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRedactID(t *testing.T) {
	assert.Equal(t, "9ef4***928d", RedactID("9ef432eb6251297304e76186b10a928d"))
	assert.Equal(t, "***", RedactID("short"))
	assert.Equal(t, "***", RedactID("  o1  "))
}

func TestRedactIDValue(t *testing.T) {
	assert.Equal(t, "abcd***wxyz", redactIDValue("customer_id", "abcdefghijklmnopqrstuvwxyz"))
	assert.Equal(t, "abcd***wxyz", redactIDValue("Order_ID", "abcdefghijklmnopqrstuvwxyz"))
	assert.Equal(t, "delivered", redactIDValue("status", "delivered"))
}
