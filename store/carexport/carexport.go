// Package carexport snapshots a closed set of reachable blobs into a
// single CAR v1 file, and replays one back into a store. This is an
// archival convenience layered over a store.Getter/store.Putter, not a
// second backend: every blob a CAR file carries still lives, once
// imported, as an ordinary blob addressed by its Hash32.
package carexport

import (
	"bufio"
	"fmt"
	"io"

	carv1 "github.com/ipld/go-car"
	"github.com/ipld/go-car/util"
	"github.com/ipfs/go-cid"

	hashio "github.com/rpcpool/hashio"
	"github.com/rpcpool/hashio/hash"
	"github.com/rpcpool/hashio/store"
)

// CollectReachable walks root's erased child graph (Node.Childs(), applied
// transitively) and returns every blob hash in the closed set, root
// included, each visited exactly once — mirroring the same DAG-closure
// property the backend's put algorithm relies on (spec.md §5: a value's
// hash must be known before it can be referenced, so the graph is acyclic
// by construction).
func CollectReachable(root hashio.Node) ([]hash.Hash32, error) {
	var order []hash.Hash32
	seen := make(map[hash.Hash32]struct{})

	var visit func(n hashio.Node) error
	visit = func(n hashio.Node) error {
		h, err := hashio.ContentHash(n)
		if err != nil {
			return err
		}
		if _, ok := seen[h]; ok {
			return nil
		}
		seen[h] = struct{}{}
		order = append(order, h)

		cm, err := n.Childs()
		if err != nil {
			return err
		}
		var walkErr error
		cm.Range(func(_ string, child hashio.Node) bool {
			if walkErr = visit(child); walkErr != nil {
				return false
			}
			return true
		})
		return walkErr
	}

	if err := visit(root); err != nil {
		return nil, err
	}
	return order, nil
}

// CollectReachableHashes is CollectReachable's counterpart for a caller that
// holds only bare root hashes and cannot link against the concrete Go type
// each root was written as — hashiostore's export-car command, in
// particular (see cmdDescribe's own note that the CLI has no typed Node to
// walk). It resolves each root through hashio.LoadNode's type-hash
// registry and recurses with CollectReachable from there; a root whose
// blob is an unsafe-loader collection or names an unregistered type-hash
// (hashio.ErrNotRegistered) is included as a childless leaf instead of
// failing the whole walk, since reachability from it genuinely stops there
// without a concrete type to decode it.
func CollectReachableHashes(g hashio.Getter, roots []hash.Hash32) ([]hash.Hash32, error) {
	seen := make(map[hash.Hash32]struct{})
	var order []hash.Hash32
	add := func(h hash.Hash32) {
		if _, ok := seen[h]; !ok {
			seen[h] = struct{}{}
			order = append(order, h)
		}
	}

	for _, root := range roots {
		node, err := hashio.LoadNode(g, root)
		if err == hashio.ErrNotRegistered {
			add(root)
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("carexport: resolve root %s: %w", root.Hex(), err)
		}
		reachable, err := CollectReachable(node)
		if err != nil {
			return nil, err
		}
		for _, h := range reachable {
			add(h)
		}
	}
	return order, nil
}

// Export writes a CAR v1 file to w containing the raw blob bytes (envelope
// included, exactly as stored) for every hash in hashes, naming each
// section with the CID store.ToCID derives from its hash. roots becomes
// the CAR header's root list. onSection, if given, is invoked once per
// section actually written, so a caller driving a progress indicator
// advances it against real writes rather than a decorative fixed count.
func Export(w io.Writer, g hashio.Getter, hashes []hash.Hash32, roots []hash.Hash32, onSection ...func(hash.Hash32)) error {
	rootCIDs := make([]cid.Cid, 0, len(roots))
	for _, r := range roots {
		c, err := store.ToCID(r)
		if err != nil {
			return fmt.Errorf("carexport: root cid: %w", err)
		}
		rootCIDs = append(rootCIDs, c)
	}

	hdr := &carv1.CarHeader{Roots: rootCIDs, Version: 1}
	bw := bufio.NewWriter(w)
	if err := carv1.WriteHeader(hdr, bw); err != nil {
		return fmt.Errorf("carexport: write header: %w", err)
	}

	for _, h := range hashes {
		c, err := store.ToCID(h)
		if err != nil {
			return fmt.Errorf("carexport: cid for %s: %w", h.Hex(), err)
		}
		r, err := g.Open(h)
		if err != nil {
			return fmt.Errorf("carexport: open %s: %w", h.Hex(), err)
		}
		data, err := io.ReadAll(r)
		_ = r.Close()
		if err != nil {
			return fmt.Errorf("carexport: read %s: %w", h.Hex(), err)
		}
		if err := util.LdWrite(bw, c.Bytes(), data); err != nil {
			return fmt.Errorf("carexport: write section %s: %w", h.Hex(), err)
		}
		for _, fn := range onSection {
			fn(h)
		}
	}
	return bw.Flush()
}

// Import reads a CAR v1 file and replays every section into p as a raw
// blob, keyed by the Hash32 recovered from the section's CID. This skips
// envelope re-validation entirely: sections were already envelope-valid
// when exported, so Import is a bulk-loading fast path rather than a
// second schema contract.
func Import(r io.Reader, p hashio.Putter) ([]hash.Hash32, error) {
	br := bufio.NewReader(r)
	// The header section is CBOR-encoded CarHeader; Import only replays
	// blob sections, so the header bytes are read and discarded here.
	if _, err := util.LdRead(br); err != nil {
		return nil, fmt.Errorf("carexport: read header: %w", err)
	}

	var imported []hash.Hash32
	for {
		section, err := util.LdRead(br)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("carexport: read section: %w", err)
		}
		n, c, err := cid.CidFromBytes(section)
		if err != nil {
			return nil, fmt.Errorf("carexport: parse cid: %w", err)
		}
		h, err := store.FromCID(c)
		if err != nil {
			return nil, fmt.Errorf("carexport: cid is not a hashio digest: %w", err)
		}
		data := section[n:]

		exists, err := p.Exists(h)
		if err != nil {
			return nil, fmt.Errorf("carexport: exists %s: %w", h.Hex(), err)
		}
		if !exists {
			bw, err := p.Create(h)
			if err != nil {
				return nil, fmt.Errorf("carexport: create %s: %w", h.Hex(), err)
			}
			if _, err := bw.Write(data); err != nil {
				_ = bw.Abort()
				return nil, fmt.Errorf("carexport: write %s: %w", h.Hex(), err)
			}
			if err := bw.Commit(); err != nil {
				return nil, fmt.Errorf("carexport: commit %s: %w", h.Hex(), err)
			}
		}
		imported = append(imported, h)
	}
	return imported, nil
}
