package config

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson"
)

func TestUserIndexModelsHasUniqueEmail(t *testing.T) {
	indexes := userIndexModels()
	if len(indexes) == 0 {
		t.Fatal("no user indexes defined")
	}

	for _, idx := range indexes {
		keys, ok := idx.Keys.(bson.D)
		if !ok {
			continue
		}
		for _, key := range keys {
			if key.Key != "email" {
				continue
			}
			if idx.Options == nil || idx.Options.Unique == nil || !*idx.Options.Unique {
				t.Fatal("email index is not unique")
			}
			return
		}
	}
	t.Fatal("no index on users.email")
}
