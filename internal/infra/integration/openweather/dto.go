package openweather

type weatherResponse struct {
	Weather []struct {
		Main        string `json:"main"`
		Description string `json:"description"`
	} `json:"weather"`
	Name    string `json:"name"`
	Message string `json:"message"`
}
