package utils

func FindIndex[T comparable](slice []T, item T) int {
	for i, v := range slice {
		if v == item {
			return i
		}
	}
	return -1
}

func Contains[T comparable](slice []T, item T) bool {
	return FindIndex(slice, item) >= 0
}

// Remove returns slice without its first occurrence of item. The backing array is reused.
func Remove[T comparable](slice []T, item T) []T {
	i := FindIndex(slice, item)
	if i < 0 {
		return slice
	}
	return append(slice[:i], slice[i+1:]...)
}
