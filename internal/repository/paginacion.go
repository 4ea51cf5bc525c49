package repository

import "gorm.io/gorm"

// paginar counts the rows matched by q and then loads one page of them into
// dest. q is marked as a reusable session so the count does not leak into
// the page query.
func paginar(q *gorm.DB, page, limit int, order string, dest interface{}) (int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	q = q.Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return 0, err
	}
	err := q.Order(order).Offset((page - 1) * limit).Limit(limit).Find(dest).Error
	return total, err
}

// likePattern wraps a search term for a LIKE comparison.
func likePattern(s string) string { return "%" + s + "%" }
