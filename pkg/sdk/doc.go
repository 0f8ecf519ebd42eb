// Package neurodex provides a Go client for the neurodex study query service.
//
// The service maps neuroimaging terms and brain locations to the studies that
// report them. Terms are canonical lowercase underscore-joined strings;
// locations are MNI coordinates in millimeters.
//
//	client, _ := neurodex.New("http://localhost:8080",
//	    neurodex.WithAPIKey("secret"),
//	)
//	res, _ := client.TermStudies(ctx, "posterior cingulate")
//	for _, s := range res.Studies {
//	    fmt.Println(s.StudyID, s.TopTerms)
//	}
//
//	diss, _ := client.DissociateTerms(ctx, "pain", "touch")
//	fmt.Println(len(diss.AOnly), "studies report pain but not touch")
package neurodex
