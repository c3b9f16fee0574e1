// Package hosting maps a repository identifier to the URL shape used by its
// web view, so that links such as
// https://github.com/user/project/blob/main/docs/intro.md#setup can be
// folded back onto files in the working tree.
//
// Three providers are known: GitHub and GitLab (blob view, `#` heading
// anchors, `#readme` top anchor, line links) and Bitbucket (src view,
// `#markdown-header-` heading anchors). Anything else yields an empty
// configuration under which only relative and hash links resolve.
package hosting
