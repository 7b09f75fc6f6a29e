package exchange

// Environment identifies the platform environment a message schema
// targets.
type Environment string

const (
	EnvironmentProduction Environment = "production"
	EnvironmentStage      Environment = "stage"
	EnvironmentAcceptance Environment = "acceptatie"
)

// ContentType identifies the payload encoding of a message schema.
type ContentType string

// ContentTypeXML is the only content type the platform accepts today.
const ContentTypeXML ContentType = "XML"

// Record status values as reported by the platform. The status state
// machine is server-authoritative; the client only triggers transitions.
const (
	StatusCreated   = "created"
	StatusSent      = "sent"
	StatusNew       = "new"
	StatusRead      = "read"
	StatusConfirmed = "confirmed"
	StatusRejected  = "rejected"
	StatusDeleted   = "deleted"
)

var recordStatuses = []string{
	StatusCreated, StatusSent, StatusNew, StatusRead,
	StatusConfirmed, StatusRejected, StatusDeleted,
}

var sortFields = []string{
	"creationDate", "-creationDate",
	"resourceUuid", "-resourceUuid",
	"status", "-status",
	"sub", "-sub",
}

var dateOperators = []string{"$lt", "$lte", "$ne", "$gte", "$gt"}

// MessageTypes is the catalogue of message types accepted by the
// platform.
var MessageTypes = []string{
	"BasisRegistratiePersonenBericht",
	"BronAanvraagBericht",
	"DesktoptaxatieBericht",
	"DigitaleIdentificatieBericht",
	"EigenaarsinformatieBericht",
	"EigendomsinformatieBericht",
	"EnergieVerbruikBericht",
	"HypotheekinformatieBericht",
	"LoondienstInkomstenBericht",
	"ModelmatigeWaardebepalingBericht",
	"ObjectBericht",
	"OntslagHoofdelijkeAansprakelijkheidBericht",
	"PensioenOverzichtBericht",
	"StudieLeningBericht",
	"TaxatieBericht",
	"ValidatieMelding",
	"VoorafIngevuldeAangifteBericht",
	"AX OfferteAanvraag",
	"CA ConsumentenBronAanvraag",
	"CX ConsumentenBronBericht",
	"DA DocumentAanvraagBericht",
	"DX DocumentBericht",
	"EA ExterneBronAanvraag",
	"EX ExterneBronBericht",
	"IA InformatieAanvraagBericht",
	"IX InformatieBericht",
	"KX KredietAanvraag",
	"LX LevenAanvraag",
	"MX BeheerVerzoek",
	"OX Offerte",
	"SX StatusMelding",
	"WX WaarborgBericht",
	"ZX InkomensverklaringOndernemerAanvraag",
}

func contains(haystack []string, needle string) bool {
	for _, s := range haystack {
		if s == needle {
			return true
		}
	}
	return false
}
