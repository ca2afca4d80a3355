package collections

import (
	"time"

	"github.com/Supraja1508/Backend/internal/schema"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Collection is a user-defined collection: a name, the declared schema and
// the principal that owns it. Names are not unique, not even per owner.
type Collection struct {
	ID        primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	Name      string             `json:"name" bson:"name"`
	Schema    schema.Declaration `json:"schema" bson:"schema"`
	OwnerID   string             `json:"userId" bson:"userId"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// Authorize reports whether principal owns c.
func Authorize(c *Collection, principal string) bool {
	return c != nil && principal != "" && c.OwnerID == principal
}
