// Package git inspects the repository surrounding the checked documents.
//
// doclinks never clones or fetches. It only opens the enclosing working tree
// with go-git to learn where `origin` points, where the worktree starts and
// which branch is checked out. That information feeds the hosted-link
// configuration in package hosting.
package git
