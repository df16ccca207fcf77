package request

// ByIDRequest is a common struct for endpoints that take an announcement
// id path parameter.
type ByIDRequest struct {
	ID string `uri:"id" binding:"required,uuid"`
}
