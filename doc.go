// Package visient provides a Go client for the Visient visual-intelligence
// platform: input management, annotation search, and model and workflow
// prediction.
//
// Every operation is scoped to platform identity:
//   - user-level services (Apps, Runners) take a user ID
//   - app-level services (Inputs, Models, Workflows, Modules, search
//     sessions) take a user ID and an app ID
//
// # Uploading inputs
//
//	client, _ := visient.New(visient.WithAPIKey(os.Getenv("VISIENT_API_KEY")))
//	inputs := client.Inputs("alice", "demo")
//	inputs.Upload(ctx,
//	    inputs.FromURL("dog-1", visient.InputImage, "https://example.com/dog.jpg",
//	        visient.WithLabels("dog", "pet")),
//	)
//
// # Searching
//
// A search session fixes identity, distance metric and page size at
// construction. Query validates rank and filter items up front and returns
// a lazy page sequence; pages are fetched one network call at a time:
//
//	search, _ := client.NewSearch("alice", "demo", visient.WithTopK(20))
//	pages, err := search.Query(ctx, []visient.QueryItem{
//	    {"text_raw": "green tractor"},
//	}, nil)
//	for page, err := range pages {
//	    // page.Hits, ordered by score
//	}
//
// # Prediction
//
//	outputs, _ := client.Models("alice", "demo").PredictByURL(ctx,
//	    "general-image-recognition", "https://example.com/dog.jpg",
//	    visient.InputImage)
//
// # Testing
//
// The visienttest package runs an in-process fake platform:
//
//	srv := visienttest.NewServer(visienttest.WithAPIKey("secret"))
//	defer srv.Close()
//	client, _ := visient.New(
//	    visient.WithAPIKey("secret"),
//	    visient.WithBaseURL(srv.URL()),
//	)
package visient
