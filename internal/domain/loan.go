package domain

// PropertyType classifies the collateral property.
type PropertyType string

const (
	PropertySFR              PropertyType = "SFR"
	PropertyCondo            PropertyType = "CONDO"
	PropertyTownhouse        PropertyType = "TOWNHOUSE"
	PropertyDuplex           PropertyType = "DUPLEX"
	PropertyTriplex          PropertyType = "TRIPLEX"
	PropertyFourplex         PropertyType = "FOURPLEX"
	PropertyMultifamily5Plus PropertyType = "MULTIFAMILY_5PLUS"
)

var eligiblePropertyTypes = map[PropertyType]bool{
	PropertySFR:              true,
	PropertyCondo:            true,
	PropertyTownhouse:        true,
	PropertyDuplex:           true,
	PropertyTriplex:          true,
	PropertyFourplex:         true,
	PropertyMultifamily5Plus: true,
}

// Eligible reports whether the property type is on the program's eligible
// list. Unknown types are ineligible.
func (p PropertyType) Eligible() bool {
	return eligiblePropertyTypes[p]
}

// LoanPurpose is the transaction type.
type LoanPurpose string

const (
	PurposePurchase          LoanPurpose = "PURCHASE"
	PurposeRateTermRefinance LoanPurpose = "RATE_TERM_REFINANCE"
	PurposeCashOutRefinance  LoanPurpose = "CASH_OUT_REFINANCE"
)

// IsCashOut reports whether the purpose pulls equity out of the property.
func (p LoanPurpose) IsCashOut() bool {
	return p == PurposeCashOutRefinance
}

// OccupancyType describes how the property is held. DSCR loans underwrite
// investment properties; the field is carried for completeness.
type OccupancyType string

const (
	OccupancyInvestment OccupancyType = "INVESTMENT"
	OccupancySecondHome OccupancyType = "SECOND_HOME"
	OccupancyPrimary    OccupancyType = "PRIMARY"
)

// LoanFacts is the flattened fact set the rules and pricing engines
// evaluate, assembled by the caller from a DSCR calculation result plus
// external credit and property data.
type LoanFacts struct {
	ApplicationID string  `yaml:"application_id" json:"application_id"`
	DSCR          float64 `yaml:"dscr" json:"dscr"`
	LTV           float64 `yaml:"ltv" json:"ltv"`
	CLTV          float64 `yaml:"cltv" json:"cltv"`
	CreditScore   int     `yaml:"credit_score" json:"credit_score"`

	PropertyType  PropertyType `yaml:"property_type" json:"property_type"`
	PropertyState string       `yaml:"property_state" json:"property_state"`
	Units         int          `yaml:"units" json:"units"`
	IsRural       bool         `yaml:"is_rural" json:"is_rural"`

	LoanAmount    Money         `yaml:"loan_amount" json:"loan_amount"`
	LoanPurpose   LoanPurpose   `yaml:"loan_purpose" json:"loan_purpose"`
	OccupancyType OccupancyType `yaml:"occupancy_type" json:"occupancy_type"`

	MonthsReserves      int `yaml:"months_reserves" json:"months_reserves"`
	PriorBankruptcies   int `yaml:"prior_bankruptcies" json:"prior_bankruptcies"`
	PriorForeclosures   int `yaml:"prior_foreclosures" json:"prior_foreclosures"`
	MortgageDelinquency int `yaml:"mortgage_delinquency" json:"mortgage_delinquency"`
}
