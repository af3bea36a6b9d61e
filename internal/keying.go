package internal

// Key identifies one physical resource as seen from one account and region.
// It is comparable and used directly as the collection map key, so two keys
// are equal exactly when all three parts are equal.
type Key struct {
	ID      string
	Account string
	Region  string
}

func NewKey(id string, account string, region string) Key {
	return Key{ID: id, Account: account, Region: region}
}

// String is the form used as the top-level JSON property name. It is only
// unambiguous because account IDs and region names never contain "_";
// RenderJSON rejects two keys that still map to the same string.
func (k Key) String() string {
	return k.ID + "_" + k.Account + "_" + k.Region
}

func (k Key) Less(o Key) bool {
	if k.String() != o.String() {
		return k.String() < o.String()
	}
	if k.ID != o.ID {
		return k.ID < o.ID
	}
	if k.Account != o.Account {
		return k.Account < o.Account
	}
	return k.Region < o.Region
}
