// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package visibility decides which voter identities a given viewer may see.

Resolve applies the disclosure rules in order:

 1. AI votes always appear under the persona's display name.
 2. Public votes appear under the voter's profile name.
 3. An anonymous vote is shown to its own voter, badged as anonymous.
 4. Everyone else sees anonymous votes only as per-option counts.

VisibleVoters folds a question's votes into a VotersResponse: named voters
for whatever the viewer may see, anonymous per-option counts for the rest.
Display names come from a Directory, implemented in production by the
store's profile projection.
*/
package visibility
