package mindmap

import "github.com/dtroode/aitoolmap-server/internal/model"

// Split distributes categories over the two columns of the map.
// Up to three categories all go right; otherwise the first ceil(n/2) go right
// and the rest go left, keeping store order in both columns.
func Split(categories []model.Category) (left, right []model.Category) {
	n := len(categories)
	if n <= 3 {
		return []model.Category{}, categories
	}
	numRight := (n + 1) / 2
	return categories[numRight:], categories[:numRight]
}
