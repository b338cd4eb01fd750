package model

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/schema"
)

func TestCustomerDNIIndexIgnoresDeletedRows(t *testing.T) {
	s, err := schema.Parse(&Customer{}, &sync.Map{}, schema.NamingStrategy{})
	require.NoError(t, err)

	idx := s.LookIndex("idx_customers_dni")
	require.NotNil(t, idx)
	assert.Equal(t, "UNIQUE", idx.Class)
	assert.Equal(t, "deleted_at IS NULL", idx.Where)
	require.Len(t, idx.Fields, 1)
	assert.Equal(t, "DNI", idx.Fields[0].Name)
}

func TestCustomerIsStaff(t *testing.T) {
	assert.True(t, (&Customer{Profile: ProfileSeller}).IsStaff())
	assert.False(t, (&Customer{Profile: ProfileCustomer}).IsStaff())
	assert.False(t, (&Customer{}).IsStaff())
}
