package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type payload struct {
	Action string `json:"action" validate:"required,max=255"`
	Status string `json:"status" validate:"omitempty,oneof=initiated in_progress completed failed"`
}

func TestValidate(t *testing.T) {
	assert.Nil(t, Validate(&payload{Action: "reboot"}))
	assert.Equal(t, map[string]string{"action": "required"}, Validate(&payload{}))
	assert.Equal(t, map[string]string{"status": "oneof"}, Validate(&payload{Action: "x", Status: "exploded"}))
}
