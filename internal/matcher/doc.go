// Package matcher decides, at publish time, whether a submission duplicates
// or infringes stored content.
//
// Router is the single entry point. It prepares the submission (normalized
// text, exact hash, perceptual hashes), pulls bounded candidate sets through
// candidates.Adapter and applies the per-content-type rules:
//
//   - post: exact hash first, then shingle similarity; duplicate at the high
//     threshold, at the long-text threshold for long posts, copyright when a
//     protected post clears the copyright threshold.
//   - video: the post text check (always duplicate), then thumbnail dHash,
//     frame and audio alignment and video URL equality against protected
//     videos (always copyright). The strongest signal wins.
//   - clip: same-URL clips whose captions clear the caption threshold are
//     duplicates. Clips never flag as copyright.
//
// Evaluate fails open: retrieval and hash errors are logged with
// alert=fail_open and produce the neutral verdict. Check exposes the raw
// error for callers that need it.
package matcher
