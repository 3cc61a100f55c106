// Package format renders dates, amounts, and survey numbers the way the
// portal's UI displays them.
package format

import (
	"strconv"
	"strings"
	"time"
)

// IndianDate renders a time as dd-mm-yyyy.
func IndianDate(t time.Time) string {
	return t.Format("02-01-2006")
}

// INR renders a whole-rupee amount with the Indian grouping scheme: the last
// three digits form one group, every pair of digits before that forms
// another (₹25,75,000).
func INR(amount int64) string {
	negative := amount < 0
	if negative {
		amount = -amount
	}

	digits := strconv.FormatInt(amount, 10)
	var groups []string
	if len(digits) > 3 {
		head := digits[:len(digits)-3]
		groups = append(groups, digits[len(digits)-3:])
		for len(head) > 2 {
			groups = append(groups, head[len(head)-2:])
			head = head[:len(head)-2]
		}
		if head != "" {
			groups = append(groups, head)
		}
		for i, j := 0, len(groups)-1; i < j; i, j = i+1, j-1 {
			groups[i], groups[j] = groups[j], groups[i]
		}
	} else {
		groups = []string{digits}
	}

	out := "₹" + strings.Join(groups, ",")
	if negative {
		out = "-" + out
	}
	return out
}

// SurveyNumber joins a survey number with its optional sub-division
// (142 + 2A -> "142/2A").
func SurveyNumber(surveyNo, subDivision string) string {
	if subDivision == "" {
		return surveyNo
	}
	return surveyNo + "/" + subDivision
}
