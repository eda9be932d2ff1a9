package models

import "time"

const GroupsPerPage = 10

type Group struct {
	ID         int64     `json:"id" db:"id"`
	Name       string    `json:"name" db:"name"`
	WordsCount int       `json:"words_count" db:"words_count"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}

type GroupRef struct {
	ID   int64  `json:"id" db:"id"`
	Name string `json:"name" db:"name"`
}

var groupSortColumns = map[string]bool{
	"name":        true,
	"words_count": true,
}

func NormalizeGroupSort(sortBy, order string) (string, string) {
	if !groupSortColumns[sortBy] {
		sortBy = "name"
	}
	return sortBy, NormalizeOrder(order)
}
