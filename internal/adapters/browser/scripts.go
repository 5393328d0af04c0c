package browser

// Every node script takes the data-tl-id as its first argument.

const discoverJS = `(simpleSel, richSel) => {
	window.__tlSeq = window.__tlSeq || 0;
	const out = [];
	const seen = new Set();
	const tag = (el, kind) => {
		if (seen.has(el) || el.childElementCount > 0) return;
		seen.add(el);
		if (!el.dataset.tlId) el.dataset.tlId = String(++window.__tlSeq);
		out.push({id: el.dataset.tlId, kind: kind});
	};
	if (richSel) document.querySelectorAll(richSel).forEach(el => tag(el, 'rich'));
	if (simpleSel) document.querySelectorAll(simpleSel).forEach(el => tag(el, 'simple'));
	return JSON.stringify(out);
}`

const isLiveJS = `(id) => {
	const el = document.querySelector('[data-tl-id="' + id + '"]');
	return !!el && el.isConnected;
}`

const getTextJS = `(id) => {
	const el = document.querySelector('[data-tl-id="' + id + '"]');
	return el ? el.textContent : null;
}`

const setTextJS = `(id, text) => {
	const el = document.querySelector('[data-tl-id="' + id + '"]');
	if (!el) return false;
	el.textContent = text;
	return true;
}`

const getStyleJS = `(id) => {
	const el = document.querySelector('[data-tl-id="' + id + '"]');
	if (!el) return null;
	const cs = getComputedStyle(el);
	return JSON.stringify({
		character_spacing: parseFloat(cs.letterSpacing) || 0,
		line_spacing: parseFloat(el.dataset.tlLineSpacing || '0'),
		auto_sizing: el.dataset.tlAuto === '1',
		font: el.style.fontFamily || ''
	});
}`

const setLetterSpacingJS = `(id, v) => {
	const el = document.querySelector('[data-tl-id="' + id + '"]');
	if (!el) return false;
	el.style.letterSpacing = v + 'px';
	return true;
}`

const setLineSpacingJS = `(id, v) => {
	const el = document.querySelector('[data-tl-id="' + id + '"]');
	if (!el) return false;
	el.dataset.tlLineSpacing = String(v);
	el.style.lineHeight = 'calc(1.2em + ' + v + 'px)';
	return true;
}`

// Shrinks the font size from max toward min until the text fits its box.
const setAutoSizeJS = `(id, enabled, min, max) => {
	const el = document.querySelector('[data-tl-id="' + id + '"]');
	if (!el) return false;
	if (!enabled) {
		delete el.dataset.tlAuto;
		el.style.fontSize = '';
		return true;
	}
	el.dataset.tlAuto = '1';
	const fits = () => el.scrollWidth <= el.clientWidth && el.scrollHeight <= el.clientHeight;
	let size = max;
	el.style.fontSize = size + 'px';
	while (size > min && !fits()) {
		size -= 1;
		el.style.fontSize = size + 'px';
	}
	return true;
}`

const setFontJS = `(id, family) => {
	const el = document.querySelector('[data-tl-id="' + id + '"]');
	if (!el) return false;
	el.style.fontFamily = '"' + family + '", sans-serif';
	return true;
}`

const reflowJS = `(id) => {
	const el = document.querySelector('[data-tl-id="' + id + '"]');
	if (!el) return false;
	void el.offsetHeight;
	return true;
}`

const loadFontJS = `async (family, b64) => {
	const bin = atob(b64);
	const bytes = new Uint8Array(bin.length);
	for (let i = 0; i < bin.length; i++) bytes[i] = bin.charCodeAt(i);
	const face = new FontFace(family, bytes.buffer);
	await face.load();
	document.fonts.add(face);
	return family;
}`
