package models

// All returns every model in dependency order, for auto-migration.
func All() []interface{} {
	return []interface{}{
		&User{},
		&Category{},
		&Genre{},
		&Title{},
		&Review{},
		&Comment{},
	}
}
