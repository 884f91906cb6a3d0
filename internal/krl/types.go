package krl

// StationData is one station as returned by the upstream listing.
type StationData struct {
	ID       string `json:"sta_id"`
	Name     string `json:"sta_name"`
	Daop     int    `json:"group_wil"`
	FgEnable int    `json:"fg_enable"`
}

// ScheduleData is one departure as returned by the upstream schedule
// endpoint. Times are clock strings, not instants.
type ScheduleData struct {
	TrainID     string `json:"train_id"`
	Line        string `json:"ka_name"`
	Route       string `json:"route_name"`
	Destination string `json:"dest"`
	TimeEst     string `json:"time_est"`
	DestTime    string `json:"dest_time"`
	Color       string `json:"color"`
}

// RouteMapData is one route map permalink per operational area.
type RouteMapData struct {
	Daop      int    `json:"wil"`
	Permalink string `json:"permalink"`
}

// FareData is the upstream fare quote between two stations.
type FareData struct {
	StationFrom string `json:"sta_code_from"`
	NameFrom    string `json:"sta_name_from"`
	StationTo   string `json:"sta_code_to"`
	NameTo      string `json:"sta_name_to"`
	Fare        int    `json:"fare"`
	Distance    string `json:"distance"`
}

type stationsResponse struct {
	Status int           `json:"status"`
	Data   []StationData `json:"data"`
}

type schedulesResponse struct {
	Status int            `json:"status"`
	Data   []ScheduleData `json:"data"`
}

type routeMapsResponse struct {
	Status int            `json:"status"`
	Data   []RouteMapData `json:"data"`
}

type fareResponse struct {
	Status int        `json:"status"`
	Data   []FareData `json:"data"`
}
