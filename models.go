package nasa

// APODRecord is one Astronomy Picture of the Day entry flattened from the upstream answer.
// HDURL carries the upstream "hdurl" value, the high definition picture link.
type APODRecord struct {
	Date        string `json:"date" db:"date"`
	Explanation string `json:"explanation" db:"explanation"`
	HDURL       string `json:"hdurl" db:"hd_url"`
	Title       string `json:"title" db:"title"`
	URL         string `json:"url" db:"url"`
}

// NEORecord is one near earth object taken from a NeoWs feed bucket.
type NEORecord struct {
	NeoReferenceID                 int64  `json:"neoReferenceId"`
	Name                           string `json:"name"`
	NasaJplURL                     string `json:"nasaJplUrl"`
	IsPotentiallyHazardousAsteroid bool   `json:"isPotentiallyHazardousAsteroid"`
}

type APODResponse struct {
	Info []APODRecord `json:"Info"`
}

type NEOFeedResponse struct {
	NearEarthObjects []NEORecord `json:"Near earth objects"`
}
