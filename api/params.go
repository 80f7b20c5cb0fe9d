package api

import (
	"strconv"

	"github.com/charles-oliveira/web-2/apperr"
	"github.com/charles-oliveira/web-2/models"
	"github.com/gin-gonic/gin"
)

const defaultPageSize = 100

var (
	minDate = models.NewDate(1, 1, 1)
	maxDate = models.NewDate(9999, 12, 31)
)

func queryInt(c *gin.Context, name string, def int64) (int64, error) {
	raw := c.Query(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, apperr.New(apperr.Validation, "invalid %s %q", name, raw)
	}
	return v, nil
}

func queryDate(c *gin.Context, name string) (models.Date, bool, error) {
	raw := c.Query(name)
	if raw == "" {
		return models.Date{}, false, nil
	}
	d, err := models.ParseDate(raw)
	if err != nil {
		return models.Date{}, false, apperr.New(apperr.Validation, "invalid %s %q: expected YYYY-MM-DD", name, raw)
	}
	return d, true, nil
}

// openRange reads start_date and end_date; either bound may be missing.
func openRange(c *gin.Context) (*models.DateRange, error) {
	start, hasStart, err := queryDate(c, "start_date")
	if err != nil {
		return nil, err
	}
	end, hasEnd, err := queryDate(c, "end_date")
	if err != nil {
		return nil, err
	}
	if !hasStart && !hasEnd {
		return nil, nil
	}
	if !hasStart {
		start = minDate
	}
	if !hasEnd {
		end = maxDate
	}
	return &models.DateRange{Start: start, End: end}, nil
}

// closedRange reads start_date and end_date, which must come together.
func closedRange(c *gin.Context) (*models.DateRange, error) {
	start, hasStart, err := queryDate(c, "start_date")
	if err != nil {
		return nil, err
	}
	end, hasEnd, err := queryDate(c, "end_date")
	if err != nil {
		return nil, err
	}
	if hasStart != hasEnd {
		return nil, apperr.New(apperr.Validation, "start_date and end_date must be given together")
	}
	if !hasStart {
		return nil, nil
	}
	return &models.DateRange{Start: start, End: end}, nil
}

func transactionFilter(c *gin.Context) (models.TransactionFilter, error) {
	f := models.TransactionFilter{
		Kind:          models.Kind(c.Query("kind")),
		PaymentMethod: models.PaymentMethod(c.Query("payment_method")),
		Search:        c.Query("search"),
		Ordering:      models.Ordering(c.Query("ordering")),
	}
	var err error
	if f.CategoryID, err = queryInt(c, "category_id", 0); err != nil {
		return f, err
	}
	if f.Range, err = openRange(c); err != nil {
		return f, err
	}
	limit, err := queryInt(c, "limit", defaultPageSize)
	if err != nil {
		return f, err
	}
	offset, err := queryInt(c, "offset", 0)
	if err != nil {
		return f, err
	}
	f.Limit, f.Offset = int(limit), int(offset)
	return f, f.Validate()
}
