package consultationRepository

const keyPrefix = "consultation:"

func consultationKey(id string) string {
	return keyPrefix + id
}

// photosKey holds the consultation's photographs as a list in upload order.
func photosKey(id string) string {
	return keyPrefix + id + ":photos"
}

func radiographKey(id string) string {
	return keyPrefix + id + ":radiograph"
}

func uploadKeys(id string) []string {
	return []string{photosKey(id), radiographKey(id)}
}
