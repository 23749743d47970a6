package mqtt

import (
	"github.com/denisbrodbeck/machineid"
	"github.com/google/uuid"
)

// ClientID returns a broker client ID stable for this machine. When the
// machine ID cannot be read, a random suffix is used instead.
func ClientID(app string) string {
	id, err := machineid.ProtectedID(app)
	if err != nil || len(id) < 12 {
		return app + "-" + uuid.NewString()[:8]
	}
	return app + "-" + id[:12]
}
