package services

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
)

func TestMapDuplicateKeyToConflict(t *testing.T) {
	dup := mongo.WriteException{WriteErrors: mongo.WriteErrors{{Code: 11000}}}

	err := MapDuplicateKey(dup, "Customer with this email already exists")

	var conflict *ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, "Customer with this email already exists", conflict.Message)
}

func TestMapDuplicateKeyPassesOtherErrorsThrough(t *testing.T) {
	other := errors.New("connection reset")
	assert.Equal(t, other, MapDuplicateKey(other, "ignored"))

	assert.NoError(t, MapDuplicateKey(nil, "ignored"))
}
