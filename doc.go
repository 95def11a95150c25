/*

Package grf is a random-access reader/parser of Ragnarok Online's GRF
archive file format.

A GRF bundles thousands of game assets (sprites, maps, sounds, textures,
scripts) into a single container, with per-entry deflate compression and,
for protected entries, a custom single-round keyless block cipher derived
from DES.

This package only reads GRFs; it does not write or modify them, and it does
not implement the (much older) GRF v1.x container layout.

Information sources:

- The format is commonly documented across the Ragnarok Online private
  server community under names like "GRF format" or "GRF file structure";
  see the various open-source GRF browser/editor projects for background.

- The custom cipher is a reduced, keyless, single-round derivative of DES:
  four S-boxes instead of eight, and custom IP/FP/P-box tables. There is no
  key schedule; the tables are fixed constants.

Typical usage:

	a, err := grf.Open(context.Background(), "data.grf")
	if err != nil {
		...
	}
	defer a.Close()

	if err := a.Load(context.Background()); err != nil {
		...
	}

	data, err := a.GetFile(context.Background(), "data\\texture\\foo.bmp")

*/
package grf
