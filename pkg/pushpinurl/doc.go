// Package pushpinurl implements the pushpin:// document address codec.
//
// A pushpin URL carries a document's synchronization identity plus an
// optional declared content type in a single transportable string:
//
//	pushpin://{type}/{documentId}[/{segment}]*
//
// The type segment may be empty, which tells the resolver to infer the
// content type from the document's own MIME type once a snapshot is
// available:
//
//	pushpin://audio/3f1c...        declared type "audio"
//	pushpin:///3f1c...             type inferred from content
//
// The string format is bit-exact for interoperability with existing links:
// Parse and Url.String round-trip every well-formed address without
// normalization beyond whitespace trimming.
//
// # Usage
//
//	u, err := pushpinurl.Create("audio", docID)
//	if err != nil {
//	    return err
//	}
//	link := u.String() // "pushpin://audio/3f1c..."
//
//	u, err = pushpinurl.Parse(link)
//	if errors.Is(err, pushpinurl.ErrInvalidURL) {
//	    // malformed address, surface to the caller
//	}
package pushpinurl
