package util

import (
	"github.com/google/uuid"
	"github.com/igorpreis/Store-Back-End/internal/domain/model"
)

func GenerateID() string {
	return uuid.New().String()
}

// DuplicateTshirtIDs 成對掃描找出重複的 tshirt id
// O(n²)，購物車品項數量很小所以可接受
func DuplicateTshirtIDs(items []model.CartItem) (bool, []string) {
	var duplicates []string
	found := false
	for i := 0; i < len(items); i++ {
		for j := i + 1; j < len(items); j++ {
			if items[i].TshirtID == items[j].TshirtID {
				duplicates = append(duplicates, items[i].TshirtID)
				found = true
			}
		}
	}
	return found, duplicates
}
