package worldtime

// timezoneResponse is the subset of the /api/timezone/<zone> body the
// client reads.
type timezoneResponse struct {
	UTCDatetime string `json:"utc_datetime"`
	Datetime    string `json:"datetime"`
	Timezone    string `json:"timezone"`
	UTCOffset   string `json:"utc_offset"`
	Unixtime    int64  `json:"unixtime"`
}
