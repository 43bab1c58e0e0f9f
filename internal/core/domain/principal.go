package domain

// Role names the three kinds of authenticated principal.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleStore    Role = "store"
	RoleCustomer Role = "customer"
)

// Principal is the authenticated caller supplied by the identity boundary.
// The set of implementations is closed: AdminPrincipal, StorePrincipal and CustomerPrincipal.
type Principal interface {
	Role() Role
	Subject() string
	CanViewCustomer(customerID string) bool
	CanQueryStore(storeID string) bool
	CanSubmit(kind MovementKind, storeID string) bool
	CanEnrollCustomers() bool
	CanManageDirectory() bool
	SeesRawBalances() bool

	sealed()
}

// AdminPrincipal is the network administrator.
type AdminPrincipal struct {
	SubjectID string
}

func (AdminPrincipal) Role() Role                          { return RoleAdmin }
func (p AdminPrincipal) Subject() string                   { return p.SubjectID }
func (AdminPrincipal) CanViewCustomer(string) bool         { return true }
func (AdminPrincipal) CanQueryStore(string) bool           { return true }
func (AdminPrincipal) CanSubmit(MovementKind, string) bool { return true }
func (AdminPrincipal) CanEnrollCustomers() bool            { return true }
func (AdminPrincipal) CanManageDirectory() bool            { return true }
func (AdminPrincipal) SeesRawBalances() bool               { return true }
func (AdminPrincipal) sealed()                             {}

// StorePrincipal is a store terminal session. Movements it submits must name its own store.
type StorePrincipal struct {
	SubjectID string
	StoreID   string
}

func (StorePrincipal) Role() Role                  { return RoleStore }
func (p StorePrincipal) Subject() string           { return p.SubjectID }
func (StorePrincipal) CanViewCustomer(string) bool { return true }
func (p StorePrincipal) CanQueryStore(storeID string) bool {
	return storeID == p.StoreID
}

// CanSubmit allows earning and redeeming at the principal's own store. Reversals are administrative.
func (p StorePrincipal) CanSubmit(kind MovementKind, storeID string) bool {
	return storeID == p.StoreID && (kind == Earn || kind == Redeem)
}
func (StorePrincipal) CanEnrollCustomers() bool { return true }
func (StorePrincipal) CanManageDirectory() bool { return false }
func (StorePrincipal) SeesRawBalances() bool    { return false }
func (StorePrincipal) sealed()                  {}

// CustomerPrincipal is a shopper reading their own ledger.
type CustomerPrincipal struct {
	SubjectID  string
	CustomerID string
}

func (CustomerPrincipal) Role() Role        { return RoleCustomer }
func (p CustomerPrincipal) Subject() string { return p.SubjectID }
func (p CustomerPrincipal) CanViewCustomer(customerID string) bool {
	return customerID == p.CustomerID
}
func (CustomerPrincipal) CanQueryStore(string) bool           { return false }
func (CustomerPrincipal) CanSubmit(MovementKind, string) bool { return false }
func (CustomerPrincipal) CanEnrollCustomers() bool            { return false }
func (CustomerPrincipal) CanManageDirectory() bool            { return false }
func (CustomerPrincipal) SeesRawBalances() bool               { return false }
func (CustomerPrincipal) sealed()                             {}
