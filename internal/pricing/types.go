package pricing

// matrixData mirrors the embedded pricing catalog JSON. Keys within each
// family are the component selectors produced by the sizing stages
// (busbar ratings, tap-off amperages, cooler models, pipe diameters, ...).
type matrixData struct {
	Version  string `json:"version"`
	Currency string `json:"currency"`

	Busbar         map[string]float64 `json:"busbar"`
	TapOffBox      map[string]float64 `json:"tapOffBox"`
	RPDU           map[string]float64 `json:"rpdu"`
	Cooler         map[string]float64 `json:"cooler"`
	Piping         map[string]float64 `json:"piping"`
	UPS            map[string]float64 `json:"ups"`
	Battery        map[string]float64 `json:"battery"`
	Generator      map[string]float64 `json:"generator"`
	EHouse         map[string]float64 `json:"eHouse"`
	Sustainability map[string]float64 `json:"sustainability"`
}

// Family identifies one component pricing table. Used for logging and the
// generic lookup path.
type Family string

const (
	FamilyBusbar         Family = "busbar"
	FamilyTapOffBox      Family = "tapOffBox"
	FamilyRPDU           Family = "rpdu"
	FamilyCooler         Family = "cooler"
	FamilyPiping         Family = "piping"
	FamilyUPS            Family = "ups"
	FamilyBattery        Family = "battery"
	FamilyGenerator      Family = "generator"
	FamilyEHouse         Family = "eHouse"
	FamilySustainability Family = "sustainability"
)
