package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDescriptionFromFilename(t *testing.T) {
	assert.Equal(t, "create nutrition profiles",
		descriptionFromFilename("2026-10-01-002-create-nutrition-profiles.sql"))
	assert.Equal(t, "no prefix", descriptionFromFilename("no-prefix.sql"))
}

func TestPendingMigrations(t *testing.T) {
	files := []string{
		"db/2026-10-01-003-create-intake-items.sql",
		"db/2026-10-01-001-create-users.sql",
		"db/2026-10-01-002-create-nutrition-profiles.sql",
	}
	applied := map[string]bool{"2026-10-01-001-create-users.sql": true}

	assert.Equal(t, []string{
		"db/2026-10-01-002-create-nutrition-profiles.sql",
		"db/2026-10-01-003-create-intake-items.sql",
	}, pendingMigrations(files, applied))

	assert.Empty(t, pendingMigrations(files[1:2], applied))
}
