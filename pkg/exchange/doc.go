// Package exchange is the Go SDK for the Platform of Trust document
// exchange API.
//
// A Session holds the credentials, the PKCS#12 client identity and the
// current access token, and is shared by reference across every entity
// handle created from it:
//
//	session, err := exchange.NewSession(exchange.SessionConfig{
//	    BaseURL:          "https://api.example.com",
//	    AuthURL:          "https://auth.example.com",
//	    ClientID:         "my-client",
//	    ClientSecret:     "s3cret",
//	    KeyStorePath:     "identity.p12",
//	    KeyStorePassword: "changeit",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := session.Authenticate(ctx); err != nil {
//	    log.Fatal(err)
//	}
//
//	dossier := exchange.NewDossier(session)
//	if _, err := dossier.Create(ctx, ""); err != nil {
//	    log.Fatal(err)
//	}
//
//	record := exchange.NewRecord(session, dossier.ResourceUUID)
//	record.Message = payload
//	record.SignMessage()
//	record.Create(ctx, "")
//	record.Send(ctx, "")
//
// Counterparty responses arrive either through the bounded poll
// (RecordList.WaitForMessage) or out-of-band through a registered Hook.
//
// Operations return the wrapped *Response alongside an error. Validation
// failures and transport failures are reported as errors with no I/O and
// no state change respectively; a non-2xx platform response is returned
// both as data and as a *ProtocolError, with the local entity untouched.
package exchange
