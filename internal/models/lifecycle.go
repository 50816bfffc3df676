package models

type Lifecycle string

const (
	Active   Lifecycle = "ACTIVE"
	Inactive Lifecycle = "INACTIVE"
)

// IsActive is the persisted form of the lifecycle.
func (l Lifecycle) IsActive() bool {
	return l == Active
}

func LifecycleOf(isActive bool) Lifecycle {
	if isActive {
		return Active
	}
	return Inactive
}

// Cascade names a child table whose rows follow a parent into INACTIVE.
type Cascade struct {
	Table      string
	ForeignKey string
}

// Cascades maps a parent table to the children deactivated with it.
// Reactivating a parent leaves its children untouched.
var Cascades = map[string][]Cascade{
	"products": {
		{Table: "denominations", ForeignKey: "product_id"},
	},
}
