package exchange

// API paths. Format verbs are filled with dossier / record / event
// resource UUIDs.
const (
	pathDossiers            = "/dossiers"
	pathDossier             = "/dossiers/%s"
	pathDossierAddNode      = "/dossiers/%s/nodes/add"
	pathDossierRecords      = "/dossiers/%s/records"
	pathDossierRecord       = "/dossiers/%s/records/%s"
	pathRecordSend          = "/dossiers/%s/records/%s/send"
	pathRecordConfirm       = "/dossiers/%s/records/%s/confirm"
	pathRecords             = "/records"
	pathDossierEvents       = "/dossiers/%s/events"
	pathRecordEvents        = "/dossiers/%s/records/%s/events"
	pathEvent               = "/dossiers/%s/records/%s/events/%s"
	pathHooks               = "/hooks"
	pathHook                = "/hooks/%s"
	pathPublicKeys          = "/publickeys"
	pathPublicKey           = "/publickeys/%s"
	pathPublicKeyAlgorithms = "/publickeys/algorithms"

	// Token endpoint, relative to the auth base URL.
	pathToken = "/auth/realms/platformoftrust/protocol/openid-connect/token"
)

const (
	headerAuth       = "Authorization"
	headerAuthPrefix = "Bearer "
	headerContent    = "Content-Type"
	contentJSON      = "application/json"
	headerOnBehalfOf = "x-on-behalf-of"
)
