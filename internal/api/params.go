package api

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"regexp"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/david/salesforce-mock/internal/query"
)

type listQuery struct {
	Page   int    `query:"page" validate:"min=1"`
	Limit  int    `query:"limit" validate:"min=1,max=100"`
	Status string `query:"status"`
	Client string `query:"client"`
}

// validationDetail uses the FastAPI error layout existing clients already
// parse: {"type", "loc", "msg", "input"}.
type validationDetail struct {
	Type  string   `json:"type"`
	Loc   []string `json:"loc"`
	Msg   string   `json:"msg"`
	Input string   `json:"input"`
}

type validationResponse struct {
	Detail []validationDetail `json:"detail"`
}

type queryValidator struct {
	v *validator.Validate
}

func newQueryValidator() *queryValidator {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		if name := f.Tag.Get("query"); name != "" {
			return name
		}
		return f.Name
	})
	return &queryValidator{v: v}
}

func (qv *queryValidator) Validate(i interface{}) error {
	return qv.v.Struct(i)
}

// parseListParams reads page, limit, status and client. Missing page and limit
// take their defaults; values that do not parse or fall out of range are
// returned as details and the request must be rejected.
func parseListParams(c echo.Context) (query.ListParams, []validationDetail) {
	q := listQuery{Page: query.DefaultPage, Limit: query.DefaultLimit}

	var details []validationDetail
	errs := echo.QueryParamsBinder(c).
		FailFast(false).
		Int("page", &q.Page).
		Int("limit", &q.Limit).
		String("status", &q.Status).
		String("client", &q.Client).
		BindErrors()
	for _, err := range errs {
		var be *echo.BindingError
		if !errors.As(err, &be) {
			continue
		}
		// Integers too large for int are clamped and left to the range checks,
		// so a huge page reads as past the end rather than as garbage.
		if n, ok := clampInteger(c.QueryParam(be.Field)); ok {
			switch be.Field {
			case "page":
				q.Page = n
			case "limit":
				q.Limit = n
			}
			continue
		}
		details = append(details, validationDetail{
			Type:  "int_parsing",
			Loc:   []string{"query", be.Field},
			Msg:   "Input should be a valid integer, unable to parse string as an integer",
			Input: c.QueryParam(be.Field),
		})
	}
	if len(details) > 0 {
		return query.ListParams{}, details
	}

	if err := c.Validate(&q); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return query.ListParams{}, []validationDetail{{Type: "value_error", Loc: []string{"query"}, Msg: err.Error()}}
		}
		for _, fe := range verrs {
			details = append(details, rangeDetail(fe, c.QueryParam(fe.Field())))
		}
		return query.ListParams{}, details
	}

	return query.ListParams{
		Page:   q.Page,
		Limit:  q.Limit,
		Status: q.Status,
		Client: q.Client,
	}, nil
}

func rangeDetail(fe validator.FieldError, raw string) validationDetail {
	d := validationDetail{
		Loc:   []string{"query", fe.Field()},
		Input: raw,
	}
	if d.Input == "" {
		d.Input = fmt.Sprint(fe.Value())
	}
	switch fe.Tag() {
	case "min":
		d.Type = "greater_than_equal"
		d.Msg = "Input should be greater than or equal to " + fe.Param()
	case "max":
		d.Type = "less_than_equal"
		d.Msg = "Input should be less than or equal to " + fe.Param()
	default:
		d.Type = "value_error"
		d.Msg = "Input failed the " + strconv.Quote(fe.Tag()) + " check"
	}
	return d
}

var integerPattern = regexp.MustCompile(`^[+-]?[0-9]+$`)

// clampInteger maps a well-formed integer that overflows int to math.MaxInt or
// math.MinInt by sign. Anything else is not an integer and reports false.
func clampInteger(raw string) (int, bool) {
	if !integerPattern.MatchString(raw) {
		return 0, false
	}
	if strings.HasPrefix(raw, "-") {
		return math.MinInt, true
	}
	return math.MaxInt, true
}
