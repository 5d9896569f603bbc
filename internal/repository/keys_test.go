package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeyLayout(t *testing.T) {
	keys := NewKeys("test")

	assert.Equal(t, "medtrack:test:user:u1", keys.User("u1"))
	assert.Equal(t, "medtrack:test:username:alex", keys.UsernameIndex("alex"))
	assert.Equal(t, "medtrack:test:token:session:abc", keys.Token(TokenSession, "abc"))
	assert.Equal(t, "medtrack:test:medicine:u1:m1", keys.Medicine("u1", "m1"))
	assert.Equal(t, "medtrack:test:medicine:u1:*", keys.MedicinePattern("u1"))
	assert.Equal(t, "medtrack:test:schedule:u1:s1", keys.Schedule("u1", "s1"))
	assert.Equal(t, "medtrack:test:dosage:u1:d1", keys.Dosage("u1", "d1"))
}

func TestKeysSeparateEnvironments(t *testing.T) {
	prod := NewKeys("production")
	staging := NewKeys("staging")

	assert.NotEqual(t, prod.User("u1"), staging.User("u1"))
}

func TestEmailIndexLowercases(t *testing.T) {
	keys := NewKeys("test")

	assert.Equal(t, keys.EmailIndex("alex@example.com"), keys.EmailIndex("Alex@Example.COM"))
}
