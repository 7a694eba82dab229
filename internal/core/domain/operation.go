package domain

// Operation identifies a gateway operation for authorization purposes.
type Operation string

const (
	OpAddUser            Operation = "add_user"
	OpSecuredPing        Operation = "secured_ping"
	OpListUsers          Operation = "list_users"
	OpGetUserByEmail     Operation = "get_user_by_email"
	OpGetUserByPhone     Operation = "get_user_by_phone"
	OpListAccounts       Operation = "list_accounts"
	OpGetAccount         Operation = "get_account"
	OpGetAccountByNumber Operation = "get_account_by_number"
	OpListAccountsByUser Operation = "list_accounts_by_user"
	OpDeposit            Operation = "deposit"
	OpWithdraw           Operation = "withdraw"
	OpDeleteAccount      Operation = "delete_account"
	OpCreateAccount      Operation = "create_account"
)

// requiredRoles is the static role table; any one listed role suffices.
var requiredRoles = map[Operation]RoleSet{
	OpAddUser:            NewRoleSet(RoleAdmin),
	OpSecuredPing:        NewRoleSet(RoleAdmin, RoleUser),
	OpListUsers:          NewRoleSet(RoleAdmin),
	OpGetUserByEmail:     NewRoleSet(RoleAdmin),
	OpGetUserByPhone:     NewRoleSet(RoleAdmin),
	OpListAccounts:       NewRoleSet(RoleAdmin),
	OpGetAccount:         NewRoleSet(RoleAdmin),
	OpGetAccountByNumber: NewRoleSet(RoleAdmin),
	OpListAccountsByUser: NewRoleSet(RoleAdmin),
	OpDeposit:            NewRoleSet(RoleAdmin, RoleUser),
	OpWithdraw:           NewRoleSet(RoleAdmin, RoleUser),
	OpDeleteAccount:      NewRoleSet(RoleAdmin),
	OpCreateAccount:      NewRoleSet(RoleAdmin, RoleUser),
}

// RequiredRoles returns the roles that may perform op. Unknown operations
// get an empty set, which the gate always denies.
func RequiredRoles(op Operation) RoleSet {
	return requiredRoles[op]
}

// IsMonetary reports whether op moves money and therefore triggers alerts.
func (op Operation) IsMonetary() bool {
	return op == OpDeposit || op == OpWithdraw
}
