package dto

func pageCount(total, size int) int {
	if size <= 0 {
		return 1
	}
	n := (total + size - 1) / size
	if n < 1 {
		return 1
	}
	return n
}

func (p OrderPage) Pages() int { return pageCount(p.Total, p.PageSize) }

func (p UserPage) Pages() int { return pageCount(p.Total, p.PageSize) }
