package postgres

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/meettogether/internal/core/domain"
)

// identityNameJoin resolves display names for rows keyed by
// (<alias>.identity_kind, <alias>.identity_id).
func identityNameJoin(alias string) string {
	return fmt.Sprintf(`
		LEFT JOIN users u ON %[1]s.identity_kind = 'platform' AND u.id = %[1]s.identity_id
		LEFT JOIN guests g ON %[1]s.identity_kind = 'guest' AND g.id = %[1]s.identity_id`, alias)
}

const identityNameColumn = `COALESCE(u.display_name, g.display_name, '')`

func scannedIdentity(kind string, id uuid.UUID, name string) (domain.Identity, error) {
	k := domain.IdentityKind(kind)
	if !k.Valid() {
		return domain.Identity{}, fmt.Errorf("unknown identity kind %q", kind)
	}
	return domain.Identity{Kind: k, ID: id, DisplayName: name}, nil
}
