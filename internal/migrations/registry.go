package migrations

// Registry returns the full migration list in application order. Order
// matters: loads references shippers, so shippers must exist first.
func Registry() []Migration {
	return []Migration{
		CreateShippers,
		CreateLoads,
		CreateSmartHubs,
	}
}
