package pagination

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

// Query 请求侧分页参数，已由校验层保证 Page>=1、1<=Limit<=MaxLimit
type Query struct {
	Page  int
	Limit int
}

func Default() Query { return Query{Page: DefaultPage, Limit: DefaultLimit} }

func (q Query) Offset() int { return (q.Page - 1) * q.Limit }

// Meta 响应侧分页元信息
type Meta struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

// NewMeta totalPages = ceil(total/limit)，total==0 时保底为 1
func NewMeta(q Query, total int) Meta {
	pages := (total + q.Limit - 1) / q.Limit
	if pages < 1 {
		pages = 1
	}
	return Meta{Page: q.Page, Limit: q.Limit, Total: total, TotalPages: pages}
}
