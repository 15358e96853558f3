package global

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type confirmInput struct {
	Confirm string `validate:"required,confirm_yes"`
}

type idsInput struct {
	IDs []string `validate:"omitempty,dive,objectid_hex"`
}

func TestValidateConfirmYes(t *testing.T) {
	InitValidator()

	assert.NoError(t, Validate.Struct(confirmInput{Confirm: "YES"}))
	assert.Error(t, Validate.Struct(confirmInput{Confirm: "yes"}))
	assert.Error(t, Validate.Struct(confirmInput{Confirm: "Y"}))
	assert.Error(t, Validate.Struct(confirmInput{Confirm: ""}))
}

func TestValidateObjectIDHex(t *testing.T) {
	InitValidator()

	assert.NoError(t, Validate.Struct(idsInput{IDs: []string{primitive.NewObjectID().Hex()}}))
	assert.NoError(t, Validate.Struct(idsInput{}))
	assert.Error(t, Validate.Struct(idsInput{IDs: []string{"not-hex"}}))
}
