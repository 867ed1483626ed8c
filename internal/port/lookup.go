package port

import "context"

// IDListLookup maps one id to an ordered list of person ids, e.g. the coordinators of a group.
type IDListLookup func(ctx context.Context, id int64) ([]int64, error)

// IDSetLookup returns a fixed set of person ids, e.g. the system administrators.
type IDSetLookup func(ctx context.Context) ([]int64, error)
