package utils

import (
	"strings"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestGenerateETagStable(t *testing.T) {
	id := primitive.NewObjectID()
	at := time.Now()

	first := GenerateETag(id, at)
	second := GenerateETag(id, at)
	if first != second {
		t.Errorf("same inputs produced different etags: %s vs %s", first, second)
	}
	if !strings.HasPrefix(first, `W/"`) {
		t.Errorf("etag %s should be marked weak", first)
	}
}

func TestGenerateETagChangesWithUpdate(t *testing.T) {
	id := primitive.NewObjectID()
	at := time.Now()

	before := GenerateETag(id, at)
	after := GenerateETag(id, at.Add(time.Second))
	if before == after {
		t.Error("etag did not change after update time changed")
	}

	other := GenerateETag(primitive.NewObjectID(), at)
	if before == other {
		t.Error("different documents produced the same etag")
	}
}
