// Package common holds types shared by the application use cases.
package common

// RequestMeta identifies who issued a command and from where. It feeds audit entries.
type RequestMeta struct {
	ActorID   uint
	IPAddress string
	UserAgent string
}

// Actor returns the actor id as a pointer, nil for anonymous requests.
func (m RequestMeta) Actor() *uint {
	if m.ActorID == 0 {
		return nil
	}
	id := m.ActorID
	return &id
}

// PageResult is a page of items plus the total match count.
type PageResult[T any] struct {
	Items    []T
	Total    int64
	Page     int
	PageSize int
}
